package view

import (
	"fmt"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"

	"feline-finder/internal/data/entity"

	"github.com/google/uuid"
)

var base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func booking(adopter string, status entity.BookingStatus, calendarID int64, startOffset time.Duration) entity.Booking {
	start := base.Add(startOffset)
	return entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Adopter:      entity.Ref{ID: "a-" + adopter, Name: adopter},
		Cat:          entity.Ref{ID: "c-1", Name: "Mochi"},
		Volunteer:    entity.Ref{ID: "v-1", Name: "Riley Chen"},
		StartTime:    start,
		StartTZ:      "UTC",
		EndTime:      start.Add(time.Hour),
		EndTZ:        "UTC",
		CalendarID:   calendarID,
		Summary:      fmt.Sprintf("event %d", calendarID),
		Status:       status,
	}
}

func ids(bookings []entity.Booking) []uuid.UUID {
	out := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func TestArrangeFiltersByNameCaseInsensitive(t *testing.T) {
	in := []entity.Booking{
		booking("Dana Reyes", entity.BookingStatusConfirmed, 1, 0),
		booking("Morgan Lee", entity.BookingStatusConfirmed, 2, 0),
		booking("Andana Park", entity.BookingStatusConfirmed, 3, 0),
	}

	got := Arrange(in, Preference{Filter: Filter{Adopter: "DANA"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, b := range got {
		if b.Adopter.Name == "Morgan Lee" {
			t.Fatalf("unexpected match %q", b.Adopter.Name)
		}
	}
}

func TestArrangeDateRangeIsInclusive(t *testing.T) {
	early := booking("a", entity.BookingStatusConfirmed, 1, -24*time.Hour)
	onFrom := booking("b", entity.BookingStatusConfirmed, 2, 0)
	onTo := booking("c", entity.BookingStatusConfirmed, 3, 48*time.Hour)
	late := booking("d", entity.BookingStatusConfirmed, 4, 72*time.Hour)

	from := base
	to := base.Add(48 * time.Hour)
	got := Arrange([]entity.Booking{early, onFrom, onTo, late}, Preference{Filter: Filter{From: &from, To: &to}})

	want := []uuid.UUID{onFrom.ID, onTo.ID}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected bounds to be inclusive, got %d bookings", len(got))
	}
}

func TestSetFilterToDateCoversWholeDay(t *testing.T) {
	evening := booking("a", entity.BookingStatusConfirmed, 1, 10*time.Hour) // 19:00 on base day

	state := NewState(Preference{})
	if err := state.SetFilter(FilterTo, base.Format("2006-01-02")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := Arrange([]entity.Booking{evening}, state.Preference)
	if len(got) != 1 {
		t.Fatalf("expected booking later that day to match, got %d", len(got))
	}
}

func TestArrangeStatusGroup(t *testing.T) {
	in := []entity.Booking{
		booking("a", entity.BookingStatusCompleted, 1, 0),
		booking("b", entity.BookingStatusConfirmed, 2, 0),
		booking("c", entity.BookingStatusCancelled, 3, 0),
		booking("d", entity.BookingStatusAdopted, 4, 0),
	}

	got := Arrange(in, Preference{Filter: Filter{StatusGroup: StatusGroupFinished}})
	if len(got) != 3 {
		t.Fatalf("expected 3 finished bookings, got %d", len(got))
	}
}

func TestStatusAndStatusGroupAreExclusive(t *testing.T) {
	state := NewState(Preference{})
	if err := state.SetFilter(FilterStatus, "confirmed"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := state.SetFilter(FilterStatusGroup, "finished"); err != nil {
		t.Fatalf("set group: %v", err)
	}
	if state.Filter.Status != "" {
		t.Fatalf("expected status filter cleared, got %q", state.Filter.Status)
	}
	if state.Filter.StatusGroup != StatusGroupFinished {
		t.Fatalf("expected finished group, got %q", state.Filter.StatusGroup)
	}

	in := []entity.Booking{
		booking("a", entity.BookingStatusConfirmed, 1, 0),
		booking("b", entity.BookingStatusAdopted, 2, 0),
	}
	got := Arrange(in, state.Preference)
	if len(got) != 1 || got[0].Status != entity.BookingStatusAdopted {
		t.Fatalf("expected only the group predicate to apply, got %+v", ids(got))
	}

	state.SetStatus(entity.BookingStatusInProgress)
	if state.Filter.StatusGroup != "" {
		t.Fatalf("expected group cleared after selecting a status, got %q", state.Filter.StatusGroup)
	}
}

func TestSetFilterRejectsUnknownValues(t *testing.T) {
	state := NewState(Preference{})
	cases := []struct {
		field FilterField
		value string
	}{
		{FilterStatus, "archived"},
		{FilterStatusGroup, "later"},
		{FilterFrom, "yesterday"},
		{FilterField("colour"), "tabby"},
	}
	for _, tc := range cases {
		if err := state.SetFilter(tc.field, tc.value); err == nil {
			t.Fatalf("expected error for %s=%q", tc.field, tc.value)
		}
	}
}

func TestClearFilterKeepsOtherFields(t *testing.T) {
	state := NewState(Preference{})
	_ = state.SetFilter(FilterAdopter, "dana")
	_ = state.SetFilter(FilterCat, "mochi")
	_ = state.SetFilter(FilterFrom, "2026-05-01")
	_ = state.SetFilter(FilterStatusGroup, "active")

	state.ClearFilter(FilterCat)

	if state.Filter.Cat != "" {
		t.Fatalf("expected cat cleared, got %q", state.Filter.Cat)
	}
	if state.Filter.Adopter != "dana" || state.Filter.From == nil || state.Filter.StatusGroup != StatusGroupActive {
		t.Fatalf("other filters were reset: %+v", state.Filter)
	}
}

func TestWorkflowSortThenFieldThenCalendarID(t *testing.T) {
	in := []entity.Booking{
		booking("Zed", entity.BookingStatusConfirmed, 3, 0),
		booking("amy", entity.BookingStatusPendingShelterSetup, 8, 0),
		booking("Bea", entity.BookingStatusConfirmed, 2, 0),
		booking("amy", entity.BookingStatusConfirmed, 1, 0),
		booking("Amy", entity.BookingStatusConfirmed, 0, 0),
	}

	got := Arrange(in, Preference{WorkflowSort: true, SortField: SortAdopter})
	want := []uuid.UUID{in[1].ID, in[4].ID, in[3].ID, in[2].ID, in[0].ID}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("unexpected order: %v", adopterOrder(got))
	}
}

func TestSortDescendingKeepsCalendarTiebreakAscending(t *testing.T) {
	in := []entity.Booking{
		booking("amy", entity.BookingStatusConfirmed, 9, 0),
		booking("bea", entity.BookingStatusConfirmed, 4, 0),
		booking("amy", entity.BookingStatusConfirmed, 2, 0),
	}

	got := Arrange(in, Preference{SortField: SortAdopter, SortDirection: SortDesc})
	want := []uuid.UUID{in[1].ID, in[2].ID, in[0].ID}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("unexpected order: %v", adopterOrder(got))
	}
}

func TestSortByStartTime(t *testing.T) {
	in := []entity.Booking{
		booking("a", entity.BookingStatusConfirmed, 1, 3*time.Hour),
		booking("b", entity.BookingStatusConfirmed, 2, time.Hour),
		booking("c", entity.BookingStatusConfirmed, 3, 2*time.Hour),
	}
	got := Arrange(in, Preference{SortField: SortStart})
	want := []uuid.UUID{in[1].ID, in[2].ID, in[0].ID}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("unexpected order: %v", adopterOrder(got))
	}
}

func TestArrangeIsStableAcrossRuns(t *testing.T) {
	var in []entity.Booking
	for i := 0; i < 40; i++ {
		in = append(in, booking(fmt.Sprintf("adopter %d", i%3), entity.AllBookingStatuses[i%8], int64(i%5), 0))
	}
	pref := Preference{WorkflowSort: true, SortField: SortAdopter}

	first := ids(Arrange(in, pref))
	for run := 0; run < 5; run++ {
		if again := ids(Arrange(in, pref)); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different order", run)
		}
	}

	// equal keys keep input order
	a := booking("same", entity.BookingStatusConfirmed, 1, 0)
	b := booking("same", entity.BookingStatusConfirmed, 1, 0)
	got := Arrange([]entity.Booking{a, b}, pref)
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("expected equal bookings to keep input order")
	}
}

func TestArrangeDoesNotModifyInput(t *testing.T) {
	in := []entity.Booking{
		booking("b", entity.BookingStatusConfirmed, 2, 0),
		booking("a", entity.BookingStatusConfirmed, 1, 0),
	}
	before := ids(in)
	Arrange(in, Preference{SortField: SortAdopter})
	if !reflect.DeepEqual(before, ids(in)) {
		t.Fatalf("input slice was reordered")
	}
}

func TestCalendarTiebreakMakesSharedEventsAdjacent(t *testing.T) {
	first7 := booking("a", entity.BookingStatusConfirmed, 7, 0)
	only9 := booking("b", entity.BookingStatusConfirmed, 9, 0)
	second7 := booking("c", entity.BookingStatusConfirmed, 7, 0)

	page := Compose([]entity.Booking{first7, only9, second7}, NewState(Preference{}))

	if len(page.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(page.Groups))
	}
	g7, g9 := page.Groups[0], page.Groups[1]
	if g7.CalendarID != 7 || len(g7.Bookings) != 2 || !g7.Shared() {
		t.Fatalf("expected a shared group of two for calendar 7, got %+v", g7)
	}
	if g7.Bookings[0].ID != first7.ID || g7.Bookings[1].ID != second7.ID {
		t.Fatalf("expected creation order inside the group")
	}
	if g9.CalendarID != 9 || g9.Shared() {
		t.Fatalf("expected calendar 9 alone, got %+v", g9)
	}
}

// Runs with the same calendar id that are not adjacent after sorting stay separate.
func TestGroupRunsIsAdjacencyOnly(t *testing.T) {
	sorted := []entity.Booking{
		booking("a", entity.BookingStatusConfirmed, 7, 0),
		booking("b", entity.BookingStatusConfirmed, 7, 0),
		booking("c", entity.BookingStatusConfirmed, 9, 0),
		booking("d", entity.BookingStatusConfirmed, 7, 0),
	}

	groups := GroupRuns(sorted)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	sizes := []int{len(groups[0].Bookings), len(groups[1].Bookings), len(groups[2].Bookings)}
	if !reflect.DeepEqual(sizes, []int{2, 1, 1}) {
		t.Fatalf("expected sizes [2 1 1], got %v", sizes)
	}
	if groups[0].CalendarID != 7 || groups[2].CalendarID != 7 {
		t.Fatalf("expected both calendar 7 runs kept apart")
	}

	// adjacent bookings in the same group always share an id, and neighbours across groups never do
	for i, g := range groups {
		for _, b := range g.Bookings {
			if b.CalendarID != g.CalendarID {
				t.Fatalf("group %d holds calendar %d", i, b.CalendarID)
			}
		}
		if i > 0 && groups[i-1].CalendarID == g.CalendarID {
			t.Fatalf("groups %d and %d should have merged", i-1, i)
		}
	}
}

func TestPagesConcatenateToFullSequence(t *testing.T) {
	var in []entity.Booking
	for i := 0; i < 23; i++ {
		in = append(in, booking(fmt.Sprintf("a%02d", i), entity.AllBookingStatuses[i%8], int64(i%4), time.Duration(i)*time.Minute))
	}
	pref := Preference{PageSize: 5, WorkflowSort: true, SortField: SortStart}
	full := ids(Arrange(in, pref))

	state := NewState(pref)
	first := Compose(in, state)
	if first.TotalPages != 5 || first.Total != 23 {
		t.Fatalf("expected 23 bookings over 5 pages, got %d over %d", first.Total, first.TotalPages)
	}

	var joined []uuid.UUID
	for p := 1; p <= first.TotalPages; p++ {
		state.SetPage(p)
		page := Compose(in, state)
		if page.CurrentPage != p {
			t.Fatalf("expected page %d, got %d", p, page.CurrentPage)
		}
		joined = append(joined, ids(page.Bookings())...)
	}
	if !reflect.DeepEqual(full, joined) {
		t.Fatalf("pages do not reproduce the arranged sequence")
	}
}

func TestGroupSplitAcrossPageBoundary(t *testing.T) {
	in := []entity.Booking{
		booking("a", entity.BookingStatusConfirmed, 1, 0),
		booking("b", entity.BookingStatusConfirmed, 3, 0),
		booking("c", entity.BookingStatusConfirmed, 3, 0),
	}
	state := NewState(Preference{PageSize: 2})

	p1 := Compose(in, state)
	state.SetPage(2)
	p2 := Compose(in, state)

	if len(p1.Groups) != 2 || p1.Groups[1].CalendarID != 3 || p1.Groups[1].Shared() {
		t.Fatalf("expected page 1 to end with a single calendar 3 row, got %+v", p1.Groups)
	}
	if len(p2.Groups) != 1 || p2.Groups[0].CalendarID != 3 || p2.Groups[0].Shared() {
		t.Fatalf("expected page 2 to regroup its own slice, got %+v", p2.Groups)
	}
}

func TestPageSizeChangeResetsToFirstPage(t *testing.T) {
	state := NewState(Preference{PageSize: 10})
	state.SetPage(3)

	state.SetPageSize(25)

	if state.CurrentPage != 1 {
		t.Fatalf("expected page 1, got %d", state.CurrentPage)
	}
	if state.PageSize != 25 {
		t.Fatalf("expected page size 25, got %d", state.PageSize)
	}
}

func TestComposeClampsPageBeyondEnd(t *testing.T) {
	in := []entity.Booking{
		booking("a", entity.BookingStatusConfirmed, 1, 0),
		booking("b", entity.BookingStatusConfirmed, 2, 0),
		booking("c", entity.BookingStatusConfirmed, 3, 0),
	}
	state := NewState(Preference{PageSize: 2})
	state.SetPage(9)

	page := Compose(in, state)
	if page.CurrentPage != 2 || len(page.Bookings()) != 1 {
		t.Fatalf("expected clamp to last page with 1 booking, got page %d with %d", page.CurrentPage, len(page.Bookings()))
	}
}

func TestComposeEmptyState(t *testing.T) {
	in := []entity.Booking{booking("a", entity.BookingStatusConfirmed, 1, 0)}
	state := NewState(Preference{Filter: Filter{Adopter: "nobody"}})
	state.SetPage(4)

	page := Compose(in, state)
	if !page.Empty {
		t.Fatalf("expected empty state")
	}
	if page.Groups == nil || len(page.Groups) != 0 {
		t.Fatalf("expected zero groups, got %+v", page.Groups)
	}
	if page.TotalPages != 0 || page.CurrentPage != 1 {
		t.Fatalf("expected 0 pages on page 1, got %d on %d", page.TotalPages, page.CurrentPage)
	}
}

func TestPreferenceValidate(t *testing.T) {
	from := base
	to := base.Add(-time.Hour)
	bad := Preference{
		Filter:        Filter{Status: "archived", From: &from, To: &to},
		SortField:     "colour",
		SortDirection: "up",
		PageSize:      500,
	}
	err := bad.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if (Preference{SortField: SortCalendarID, PageSize: 25}).Validate() != nil {
		t.Fatalf("expected valid preference")
	}
}

func TestNormalizedPrefersStatusOverGroup(t *testing.T) {
	p := Preference{Filter: Filter{Status: entity.BookingStatusConfirmed, StatusGroup: StatusGroupFinished}}.Normalized()
	if p.Filter.StatusGroup != "" || p.Filter.Status != entity.BookingStatusConfirmed {
		t.Fatalf("expected status kept and group dropped, got %+v", p.Filter)
	}
	if p.PageSize != DefaultPageSize || p.SortDirection != SortAsc {
		t.Fatalf("expected defaults, got size=%d dir=%q", p.PageSize, p.SortDirection)
	}
}

func TestWorkflowRankTable(t *testing.T) {
	for i, status := range entity.AllBookingStatuses {
		if got := WorkflowRank(status); got != i+1 {
			t.Fatalf("expected %s rank %d, got %d", status, i+1, got)
		}
	}
	if WorkflowRank("archived") <= WorkflowRank(entity.BookingStatusCancelled) {
		t.Fatalf("expected unknown status to rank last")
	}
}

func TestStatusGroupsPartitionStatuses(t *testing.T) {
	seen := map[entity.BookingStatus]StatusGroup{}
	for _, g := range []StatusGroup{StatusGroupEarlyStage, StatusGroupAssigned, StatusGroupActive, StatusGroupFinished} {
		for _, s := range g.Statuses() {
			if prev, ok := seen[s]; ok {
				t.Fatalf("%s in both %s and %s", s, prev, g)
			}
			seen[s] = g
		}
	}
	if len(seen) != len(entity.AllBookingStatuses) {
		t.Fatalf("expected every status in a group, got %d", len(seen))
	}
}

func adopterOrder(bookings []entity.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = fmt.Sprintf("%s/%s/%d", b.Adopter.Name, b.Status, b.CalendarID)
	}
	return out
}
