package handlers

import (
	"context"
	"time"

	"sensornode/internal/models"
	"sensornode/internal/service"
)

// ---- Service mocks shared by the handler tests ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastParsedToken    string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername, m.lastSignUpPassword = username, password
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(username, _ string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParsedToken = token
	return m.parseID, m.parseErr
}

type mockCycle struct {
	triggerErr  error
	lastTrigger models.Source
}

func (m *mockCycle) Run(context.Context, time.Duration) {}

func (m *mockCycle) Trigger(src models.Source) error {
	m.lastTrigger = src
	return m.triggerErr
}

type mockMonitoring struct {
	state       models.NodeState
	stateErr    error
	readings    []models.StoredReading
	readingsErr error
	lastLimit   int
}

func (m *mockMonitoring) GetState(context.Context) (models.NodeState, error) {
	return m.state, m.stateErr
}

func (m *mockMonitoring) RecentReadings(_ context.Context, limit int) ([]models.StoredReading, error) {
	m.lastLimit = limit
	return m.readings, m.readingsErr
}

type mockEventLog struct {
	events     []models.NodeEvent
	listErr    error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.NodeEvent, error) {
	m.lastFilter = f
	return m.events, m.listErr
}

type mockSimulator struct{}

func (mockSimulator) Run(context.Context, time.Duration) {}

// newMockService assembles a *service.Service from the mocks, filling any
// nil slot with a zero-value mock.
func newMockService(cycle *mockCycle, mon *mockMonitoring, logs *mockEventLog, auth *mockAuth) *service.Service {
	if cycle == nil {
		cycle = &mockCycle{}
	}
	if mon == nil {
		mon = &mockMonitoring{}
	}
	if logs == nil {
		logs = &mockEventLog{}
	}
	if auth == nil {
		auth = &mockAuth{}
	}
	return &service.Service{
		Cycle:         cycle,
		Monitoring:    mon,
		EventLog:      logs,
		Simulator:     mockSimulator{},
		Authorization: auth,
	}
}
