package state

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/intray-live/internal/dispatch"
	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	appstate "github.com/cristianoliveira/intray-live/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = "3f2b8c1e-7a4d-4e1b-9c2a-5d6e7f809a1b"
	idB = "9b1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f"
)

type fakeController struct {
	mu       sync.Mutex
	snap     appstate.Snapshot
	subs     []func(appstate.Change)
	watchers []func(domain.ConnectionState)
	started  int
	filters  []domain.Filter
	marked   []string
	allRead  int
	err      error
}

func (f *fakeController) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return f.err
}

func (f *fakeController) Subscribe(fn func(appstate.Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeController) OnStateChange(fn func(domain.ConnectionState)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watchers = append(f.watchers, fn)
}

func (f *fakeController) Snapshot() appstate.Snapshot { return f.snap }

func (f *fakeController) SetFilter(_ context.Context, filter domain.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return f.err
}

func (f *fakeController) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return f.err
}

func (f *fakeController) MarkAllRead(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allRead++
	return f.err
}

func items() []domain.Notification {
	created := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	return []domain.Notification{
		{ID: idA, Title: "Invite", Message: "Join us", Category: domain.CategoryProjectInvitation, CreatedAt: created},
		{ID: idB, Title: "Comment", Message: "Nice", Category: domain.CategoryComment, Read: true, CreatedAt: created},
	}
}

func listSnapshot(filter domain.Filter, list []domain.Notification) appstate.Snapshot {
	return appstate.Snapshot{
		Badge:    appstate.Badge{Count: 1, Visible: true},
		Dropdown: appstate.Dropdown{Items: list[:1], Attached: true},
		List:     appstate.ListView{Filter: filter, Items: list, Attached: true},
	}
}

func newTestModel(t *testing.T) (*Model, *fakeController) {
	t.Helper()
	ctrl := &fakeController{snap: appstate.Snapshot{List: appstate.ListView{Filter: domain.FilterAll, Loading: true}}}
	events := NewEvents()
	m := NewModel(context.Background(), ctrl, events)
	t.Cleanup(m.Close)
	m.now = func() time.Time { return time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC) }
	return m, ctrl
}

func loaded(t *testing.T) (*Model, *fakeController) {
	t.Helper()
	m, ctrl := newTestModel(t)
	m.Update(ChangeMsg{Change: appstate.Change{Kind: appstate.ChangeList, Snapshot: listSnapshot(domain.FilterAll, items())}})
	return m, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewModel(context.Background(), nil, NewEvents()) })
	assert.Panics(t, func() { NewModel(context.Background(), &fakeController{}, nil) })
}

func TestNewModelSubscribes(t *testing.T) {
	m, ctrl := newTestModel(t)
	assert.Len(t, ctrl.subs, 1)
	assert.Len(t, ctrl.watchers, 1)
	assert.True(t, m.snap.List.Loading)
	assert.Contains(t, m.View(), "Loading notifications")
}

func TestEventsBridgeChanges(t *testing.T) {
	m, ctrl := newTestModel(t)
	snap := listSnapshot(domain.FilterAll, items())

	go ctrl.subs[0](appstate.Change{Kind: appstate.ChangeList, Snapshot: snap})
	msg := m.events.wait()()
	change, ok := msg.(ChangeMsg)
	require.True(t, ok)

	_, cmd := m.Update(change)
	assert.NotNil(t, cmd, "the model keeps listening")
	assert.Len(t, m.snap.List.Items, 2)

	go ctrl.watchers[0](domain.Connected)
	m.Update(m.events.wait()())
	assert.Equal(t, domain.Connected, m.conn)
}

func TestEventsClose(t *testing.T) {
	events := NewEvents()
	events.Close()
	assert.False(t, events.Send(ConnMsg{State: domain.Connected}))
	assert.Nil(t, events.wait()())
	events.Close()
}

func TestEventsNotifyToasts(t *testing.T) {
	events := NewEvents()
	defer events.Close()
	go events.Notify(domain.Notification{Title: "Assigned"})

	msg, ok := events.wait()().(ToastMsg)
	require.True(t, ok)
	assert.Equal(t, "New: Assigned", msg.Message.Text)
	assert.Equal(t, errors.MessageTypeInfo, msg.Message.Type)
}

func TestInitStartsSession(t *testing.T) {
	m, ctrl := newTestModel(t)
	cmd := m.Init()
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	_, ok = batch[0]().(StartedMsg)
	assert.True(t, ok)
	assert.Equal(t, 1, ctrl.started)
}

func TestStartErrorShowsToast(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(StartedMsg{Err: stderrors.New("bad url")})
	assert.NotNil(t, cmd)
	require.NotNil(t, m.toast)
	assert.Contains(t, m.toast.Text, "bad url")
}

func TestViewShowsHeaderTabsAndRows(t *testing.T) {
	m, _ := loaded(t)
	m.Update(ConnMsg{State: domain.Connected})
	out := m.View()
	assert.Contains(t, out, "intray-live")
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "1 all")
	assert.Contains(t, out, "Invite")
	assert.Contains(t, out, "Comment")
	assert.Contains(t, out, "quit")
}

func TestViewEmptyList(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(ChangeMsg{Change: appstate.Change{Kind: appstate.ChangeList, Snapshot: appstate.Snapshot{
		List: appstate.ListView{Filter: domain.FilterRead, Empty: true, Attached: true},
	}}})
	assert.Contains(t, m.View(), "No notifications found")
}

func TestViewPanelOnWideTerminal(t *testing.T) {
	m, _ := loaded(t)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	assert.Contains(t, m.View(), "Latest unread")

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	assert.NotContains(t, m.View(), "Latest unread")
}

func TestCursorMovement(t *testing.T) {
	m, _ := loaded(t)
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.uiState.GetCursor())

	m.Update(runes("j"))
	m.Update(runes("j"))
	assert.Equal(t, 1, m.uiState.GetCursor())

	m.Update(runes("k"))
	assert.Equal(t, 0, m.uiState.GetCursor())
}

func TestCursorClampedWhenListShrinks(t *testing.T) {
	m, _ := loaded(t)
	m.Update(runes("j"))
	m.Update(ChangeMsg{Change: appstate.Change{Kind: appstate.ChangeList, Snapshot: listSnapshot(domain.FilterAll, items()[:1])}})
	assert.Equal(t, 0, m.uiState.GetCursor())
}

func TestMarkSelectedRead(t *testing.T) {
	m, ctrl := loaded(t)
	_, cmd := m.Update(runes("r"))
	require.NotNil(t, cmd)
	done, ok := cmd().(ActionDoneMsg)
	require.True(t, ok)
	assert.Equal(t, actionMarkRead, done.Op)
	assert.NoError(t, done.Err)
	assert.Equal(t, []string{idA}, ctrl.marked)

	m.Update(runes("j"))
	_, cmd = m.Update(runes("r"))
	assert.Nil(t, cmd, "already read items are skipped")
}

func TestMarkAllRead(t *testing.T) {
	m, ctrl := loaded(t)
	_, cmd := m.Update(runes("a"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, ctrl.allRead)
}

func TestFilterKeys(t *testing.T) {
	m, ctrl := loaded(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	cmd()

	_, cmd = m.Update(runes("3"))
	require.NotNil(t, cmd)
	cmd()

	_, cmd = m.Update(runes("1"))
	assert.Nil(t, cmd, "the active filter is not reloaded")

	_, cmd = m.Update(runes("R"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []domain.Filter{domain.FilterRead, domain.FilterUnread, domain.FilterAll}, ctrl.filters)
}

func TestNotAcknowledgedShowsWarning(t *testing.T) {
	m, _ := loaded(t)
	_, cmd := m.Update(ActionDoneMsg{Op: actionMarkRead, Err: dispatch.ErrNotAcknowledged})
	require.NotNil(t, cmd)
	require.NotNil(t, m.toast)
	assert.Equal(t, errors.MessageTypeWarning, m.toast.Type)
	assert.Contains(t, m.View(), "did not acknowledge")

	m.Update(clearToastMsg{message: *m.toast})
	assert.Nil(t, m.toast)
}

func TestAlertedActionErrorsAreNotDuplicated(t *testing.T) {
	m, _ := loaded(t)
	_, cmd := m.Update(ActionDoneMsg{Op: actionMarkRead, Err: stderrors.New("request failed")})
	assert.Nil(t, cmd)
	assert.Nil(t, m.toast)
}

func TestFilterErrorShowsToast(t *testing.T) {
	m, _ := loaded(t)
	m.Update(ActionDoneMsg{Op: actionSetFilter, Err: stderrors.New("timeout")})
	require.NotNil(t, m.toast)
	assert.Contains(t, m.toast.Text, "timeout")
}

func TestStaleToastClearIgnored(t *testing.T) {
	m, _ := loaded(t)
	first := errors.Message{Text: "one", Type: errors.MessageTypeInfo, Timestamp: time.Unix(1, 0)}
	second := errors.Message{Text: "two", Type: errors.MessageTypeInfo, Timestamp: time.Unix(2, 0)}
	m.Update(ToastMsg{Message: first})
	m.Update(ToastMsg{Message: second})
	m.Update(clearToastMsg{message: first})
	require.NotNil(t, m.toast)
	assert.Equal(t, "two", m.toast.Text)
}

func TestSetToastDuration(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, DefaultToastDuration, m.toastDuration)

	m.SetToastDuration(0)
	assert.Equal(t, DefaultToastDuration, m.toastDuration)

	m.SetToastDuration(2 * time.Second)
	assert.Equal(t, 2*time.Second, m.toastDuration)
}

func TestQuit(t *testing.T) {
	m, _ := loaded(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _ := loaded(t)
	m.Update(runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "mark all read")
}
