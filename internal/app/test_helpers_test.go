package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// Ensure the mocks implement the interfaces
var _ secondary.UserRepository = (*mockUserRepository)(nil)
var _ secondary.WorkItemRepository = (*mockWorkItemRepository)(nil)
var _ secondary.HistoryRepository = (*mockHistoryRepository)(nil)
var _ secondary.StandupRepository = (*mockStandupRepository)(nil)
var _ secondary.ReminderRepository = (*mockReminderRepository)(nil)
var _ secondary.Notifier = (*mockNotifier)(nil)

const mockTimeLayout = "2006-01-02 15:04:05"

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	users   map[string]*secondary.UserRecord
	order   []string
	nextID  int
	listErr error
	getErr  error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[string]*secondary.UserRecord),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	if user.CreatedAt == "" {
		user.CreatedAt = "2025-06-01 09:00:00"
	}
	m.users[user.ID] = user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, secondary.ErrNotFound)
}

func (m *mockUserRepository) GetByDisplayName(ctx context.Context, displayName string) (*secondary.UserRecord, error) {
	for _, id := range m.order {
		if m.users[id].DisplayName == displayName {
			return m.users[id], nil
		}
	}
	return nil, fmt.Errorf("display name %s: %w", displayName, secondary.ErrNotFound)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*secondary.UserRecord, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, m.users[m.order[i]])
	}
	return result, nil
}

func (m *mockUserRepository) UpdateDeviceToken(ctx context.Context, id, token string) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, secondary.ErrNotFound)
	}
	u.DeviceToken = token
	return nil
}

func (m *mockUserRepository) ListWithDeviceTokens(ctx context.Context) ([]*secondary.UserRecord, error) {
	var result []*secondary.UserRecord
	for _, id := range m.order {
		if m.users[id].DeviceToken != "" {
			result = append(result, m.users[id])
		}
	}
	return result, nil
}

func (m *mockUserRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("USER-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockWorkItemRepository implements secondary.WorkItemRepository for testing.
// The compound methods mirror the transactional semantics of the real
// adapter: history and reminder writes land together with the item change.
type mockWorkItemRepository struct {
	items     map[string]*secondary.WorkItemRecord
	histories *mockHistoryRepository
	reminders *mockReminderRepository
	users     *mockUserRepository
	nextID    int
}

func newMockWorkItemRepository(users *mockUserRepository, histories *mockHistoryRepository, reminders *mockReminderRepository) *mockWorkItemRepository {
	return &mockWorkItemRepository{
		items:     make(map[string]*secondary.WorkItemRecord),
		histories: histories,
		reminders: reminders,
		users:     users,
		nextID:    1,
	}
}

func (m *mockWorkItemRepository) Create(ctx context.Context, item *secondary.WorkItemRecord, history *secondary.HistoryRecord, reminder *secondary.ReminderRecord) error {
	if item.CreatedAt == "" {
		item.CreatedAt = "2025-06-01 09:00:00"
	}
	m.items[item.ID] = item
	m.histories.add(history)
	if reminder != nil {
		m.reminders.add(reminder, item)
	}
	return nil
}

func (m *mockWorkItemRepository) GetByID(ctx context.Context, id string) (*secondary.WorkItemRecord, error) {
	if item, ok := m.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, fmt.Errorf("work item %s: %w", id, secondary.ErrNotFound)
}

func (m *mockWorkItemRepository) ListByUser(ctx context.Context, userID string) ([]*secondary.WorkItemRecord, error) {
	var result []*secondary.WorkItemRecord
	for _, item := range m.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockWorkItemRepository) Update(ctx context.Context, item *secondary.WorkItemRecord) error {
	if _, ok := m.items[item.ID]; !ok {
		return fmt.Errorf("work item %s: %w", item.ID, secondary.ErrNotFound)
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockWorkItemRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("work item %s: %w", id, secondary.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *mockWorkItemRepository) ApplyTransition(ctx context.Context, req secondary.ApplyTransitionRequest) error {
	item, ok := m.items[req.WorkItemID]
	if !ok {
		return fmt.Errorf("work item %s: %w", req.WorkItemID, secondary.ErrNotFound)
	}
	item.CurrentStage = req.ToStage
	item.StageUpdatedAt = req.At.UTC().Format(mockTimeLayout)
	item.UpdatedAt = item.StageUpdatedAt
	m.histories.add(req.History)
	if req.Reminder != nil {
		m.reminders.add(req.Reminder, item)
	}
	return nil
}

func (m *mockWorkItemRepository) Resolve(ctx context.Context, workItemID string, at time.Time, history *secondary.HistoryRecord) error {
	item, ok := m.items[workItemID]
	if !ok {
		return fmt.Errorf("work item %s: %w", workItemID, secondary.ErrNotFound)
	}
	item.CurrentStage = "resolved"
	stamp := at.UTC().Format(mockTimeLayout)
	item.StageUpdatedAt = stamp
	item.UpdatedAt = stamp
	item.ResolvedAt = stamp
	m.histories.add(history)
	m.reminders.cancelUnsent(workItemID)
	return nil
}

func (m *mockWorkItemRepository) CountUnresolvedByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, item := range m.items {
		if item.UserID == userID && item.CurrentStage != "resolved" {
			count++
		}
	}
	return count, nil
}

func (m *mockWorkItemRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	_, ok := m.users.users[userID]
	return ok, nil
}

func (m *mockWorkItemRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("WI-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockHistoryRepository implements secondary.HistoryRepository for testing.
type mockHistoryRepository struct {
	entries []*secondary.HistoryRecord
	nextID  int
}

func newMockHistoryRepository() *mockHistoryRepository {
	return &mockHistoryRepository{nextID: 1}
}

func (m *mockHistoryRepository) add(h *secondary.HistoryRecord) {
	m.entries = append(m.entries, h)
}

func (m *mockHistoryRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]*secondary.HistoryRecord, error) {
	var result []*secondary.HistoryRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].WorkItemID == workItemID {
			result = append(result, m.entries[i])
		}
	}
	return result, nil
}

func (m *mockHistoryRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("HIST-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockStandupRepository implements secondary.StandupRepository for testing.
type mockStandupRepository struct {
	updates   []*secondary.StandupRecord
	workItems map[string]string // work item ID -> owning user ID
	titles    map[string]string
	nextID    int
}

func newMockStandupRepository() *mockStandupRepository {
	return &mockStandupRepository{
		workItems: make(map[string]string),
		titles:    make(map[string]string),
		nextID:    1,
	}
}

func (m *mockStandupRepository) addWorkItem(id, userID, title string) {
	m.workItems[id] = userID
	m.titles[id] = title
}

func (m *mockStandupRepository) Create(ctx context.Context, update *secondary.StandupRecord) error {
	if update.CreatedAt == "" {
		update.CreatedAt = "2025-06-01 09:00:00"
	}
	m.updates = append(m.updates, update)
	return nil
}

func (m *mockStandupRepository) GetByID(ctx context.Context, id string) (*secondary.StandupRecord, error) {
	for _, u := range m.updates {
		if u.ID == id {
			copied := *u
			copied.WorkItemTitle = m.titles[u.WorkItemID]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("standup %s: %w", id, secondary.ErrNotFound)
}

func (m *mockStandupRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]*secondary.StandupRecord, error) {
	var result []*secondary.StandupRecord
	for i := len(m.updates) - 1; i >= 0; i-- {
		if m.updates[i].WorkItemID == workItemID {
			result = append(result, m.updates[i])
		}
	}
	return result, nil
}

func (m *mockStandupRepository) ListByUser(ctx context.Context, userID string) ([]*secondary.StandupRecord, error) {
	var result []*secondary.StandupRecord
	for i := len(m.updates) - 1; i >= 0; i-- {
		u := m.updates[i]
		if m.workItems[u.WorkItemID] == userID {
			copied := *u
			copied.WorkItemTitle = m.titles[u.WorkItemID]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockStandupRepository) ListByDate(ctx context.Context, date, userID string) ([]*secondary.StandupRecord, error) {
	var result []*secondary.StandupRecord
	for _, u := range m.updates {
		if u.Date != date {
			continue
		}
		if userID != "" && m.workItems[u.WorkItemID] != userID {
			continue
		}
		copied := *u
		copied.WorkItemTitle = m.titles[u.WorkItemID]
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockStandupRepository) Delete(ctx context.Context, id string) error {
	for i, u := range m.updates {
		if u.ID == id {
			m.updates = append(m.updates[:i], m.updates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("standup %s: %w", id, secondary.ErrNotFound)
}

func (m *mockStandupRepository) WorkItemExists(ctx context.Context, workItemID string) (bool, error) {
	_, ok := m.workItems[workItemID]
	return ok, nil
}

func (m *mockStandupRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("SU-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// reminderRow is a stored reminder plus its sent flag.
type reminderRow struct {
	record   secondary.ReminderRecord
	item     *secondary.WorkItemRecord
	sent     bool
	sentAt   time.Time
	canceled bool
}

// mockReminderRepository implements secondary.ReminderRepository for testing.
type mockReminderRepository struct {
	rows    []*reminderRow
	nextID  int
	listErr error
}

func newMockReminderRepository() *mockReminderRepository {
	return &mockReminderRepository{nextID: 1}
}

func (m *mockReminderRepository) add(r *secondary.ReminderRecord, item *secondary.WorkItemRecord) {
	m.rows = append(m.rows, &reminderRow{record: *r, item: item})
}

func (m *mockReminderRepository) cancelUnsent(workItemID string) {
	for _, row := range m.rows {
		if row.record.WorkItemID == workItemID && !row.sent {
			row.canceled = true
		}
	}
}

func (m *mockReminderRepository) live(includeFuture bool, now time.Time) []*reminderRow {
	var result []*reminderRow
	for _, row := range m.rows {
		if row.sent || row.canceled || row.item.CurrentStage == "resolved" {
			continue
		}
		if !includeFuture && row.record.ScheduledFor.After(now) {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].record.ScheduledFor.Before(result[j].record.ScheduledFor)
	})
	return result
}

func (m *mockReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*secondary.DueReminderRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.toDueRecords(m.live(false, now)), nil
}

func (m *mockReminderRepository) ListPending(ctx context.Context) ([]*secondary.DueReminderRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.toDueRecords(m.live(true, time.Time{})), nil
}

func (m *mockReminderRepository) toDueRecords(rows []*reminderRow) []*secondary.DueReminderRecord {
	result := make([]*secondary.DueReminderRecord, len(rows))
	for i, row := range rows {
		result[i] = &secondary.DueReminderRecord{
			ID:            row.record.ID,
			WorkItemID:    row.record.WorkItemID,
			Kind:          row.record.Kind,
			ScheduledFor:  row.record.ScheduledFor.UTC().Format(mockTimeLayout),
			Title:         row.item.Title,
			DependencyPOC: row.item.DependencyPOC,
			UserID:        row.item.UserID,
			CurrentStage:  row.item.CurrentStage,
		}
	}
	return result
}

func (m *mockReminderRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	for _, row := range m.rows {
		if row.record.ID == id {
			row.sent = true
			row.sentAt = at
			return nil
		}
	}
	return fmt.Errorf("reminder %s: %w", id, secondary.ErrNotFound)
}

func (m *mockReminderRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("REM-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// sentNotification captures one Send call.
type sentNotification struct {
	DeviceToken string
	Title       string
	Body        string
	Data        map[string]string
}

// mockNotifier implements secondary.Notifier for testing.
type mockNotifier struct {
	mu      sync.Mutex
	sent    []sentNotification
	sendErr error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) (*secondary.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.sent = append(m.sent, sentNotification{DeviceToken: deviceToken, Title: title, Body: body, Data: data})
	return &secondary.SendResult{Delivered: true}, nil
}

func (m *mockNotifier) Name() string {
	return "mock"
}

func (m *mockNotifier) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// newTestFixture wires a full mock repository set plus a fixed clock.
type testFixture struct {
	users     *mockUserRepository
	workItems *mockWorkItemRepository
	histories *mockHistoryRepository
	reminders *mockReminderRepository
	notifier  *mockNotifier
	now       time.Time
}

func newTestFixture() *testFixture {
	users := newMockUserRepository()
	histories := newMockHistoryRepository()
	reminders := newMockReminderRepository()
	return &testFixture{
		users:     users,
		workItems: newMockWorkItemRepository(users, histories, reminders),
		histories: histories,
		reminders: reminders,
		notifier:  newMockNotifier(),
		now:       time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
}

func (f *testFixture) clock() func() time.Time {
	return func() time.Time { return f.now }
}

func (f *testFixture) seedUser(id, displayName string) *secondary.UserRecord {
	user := &secondary.UserRecord{
		ID:          id,
		Username:    displayName + "_test",
		DisplayName: displayName,
		Role:        "senior",
	}
	_ = f.users.Create(context.Background(), user)
	return user
}
