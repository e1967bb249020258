package services

import (
	"CarePoint/models"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// keyedLocker is an in-process Locker that serializes per key, mirroring the
// Redis locker's semantics for tests.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

type mockAppointmentStore struct {
	mock.Mock
}

func (m *mockAppointmentStore) Create(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *mockAppointmentStore) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	apt, _ := args.Get(0).(*models.Appointment)
	return apt, args.Error(1)
}

func (m *mockAppointmentStore) GetForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	apt, _ := args.Get(0).(*models.Appointment)
	if apt != nil {
		// Return a copy so callers mutating the record don't alias the
		// fixture across calls, matching how fakeCalendar behaves.
		copied := *apt
		apt = &copied
	}
	return apt, args.Error(1)
}

func (m *mockAppointmentStore) Update(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *mockAppointmentStore) Replace(ctx context.Context, old, replacement *models.Appointment) error {
	args := m.Called(ctx, old, replacement)
	return args.Error(0)
}

func (m *mockAppointmentStore) GetByClinicianAndDate(ctx context.Context, clinicianID, date string) ([]models.Appointment, error) {
	args := m.Called(ctx, clinicianID, date)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentStore) GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Appointment, error) {
	args := m.Called(ctx, patientID, page, size)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentStore) GetRecentByPatient(ctx context.Context, patientID string, limit int) ([]models.Appointment, error) {
	args := m.Called(ctx, patientID, limit)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentStore) GetUpcoming(ctx context.Context, fromDate string) ([]models.Appointment, error) {
	args := m.Called(ctx, fromDate)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentStore) GetEmergency(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

type mockClinicianStore struct {
	mock.Mock
}

func (m *mockClinicianStore) GetByID(ctx context.Context, id string) (*models.Clinician, error) {
	args := m.Called(ctx, id)
	clinician, _ := args.Get(0).(*models.Clinician)
	return clinician, args.Error(1)
}

type mockBillStore struct {
	mock.Mock
}

func (m *mockBillStore) Create(ctx context.Context, bill *models.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *mockBillStore) GetByID(ctx context.Context, id uint) (*models.Bill, error) {
	args := m.Called(ctx, id)
	bill, _ := args.Get(0).(*models.Bill)
	return bill, args.Error(1)
}

func (m *mockBillStore) GetForUpdate(ctx context.Context, id uint) (*models.Bill, error) {
	args := m.Called(ctx, id)
	bill, _ := args.Get(0).(*models.Bill)
	return bill, args.Error(1)
}

func (m *mockBillStore) Update(ctx context.Context, bill *models.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *mockBillStore) GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Bill, error) {
	args := m.Called(ctx, patientID, page, size)
	bills, _ := args.Get(0).([]models.Bill)
	return bills, args.Error(1)
}

func (m *mockBillStore) SumOutstanding(ctx context.Context, patientID string) (float64, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockBillStore) GetOverdue(ctx context.Context, before string) ([]models.Bill, error) {
	args := m.Called(ctx, before)
	bills, _ := args.Get(0).([]models.Bill)
	return bills, args.Error(1)
}

func (m *mockBillStore) TotalBilledInPeriod(ctx context.Context, start, end string) (float64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockBillStore) TotalCollectedInPeriod(ctx context.Context, start, end string) (float64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(float64), args.Error(1)
}

type mockPrescriptionStore struct {
	mock.Mock
}

func (m *mockPrescriptionStore) Create(ctx context.Context, prescription *models.Prescription) error {
	args := m.Called(ctx, prescription)
	return args.Error(0)
}

func (m *mockPrescriptionStore) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Prescription)
	return p, args.Error(1)
}

func (m *mockPrescriptionStore) GetForUpdate(ctx context.Context, id uint) (*models.Prescription, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Prescription)
	return p, args.Error(1)
}

func (m *mockPrescriptionStore) Update(ctx context.Context, prescription *models.Prescription) error {
	args := m.Called(ctx, prescription)
	return args.Error(0)
}

func (m *mockPrescriptionStore) GetByPatient(ctx context.Context, patientID string, page, size int) ([]models.Prescription, error) {
	args := m.Called(ctx, patientID, page, size)
	prescriptions, _ := args.Get(0).([]models.Prescription)
	return prescriptions, args.Error(1)
}

func (m *mockPrescriptionStore) GetRefillable(ctx context.Context, patientID, today string) ([]models.Prescription, error) {
	args := m.Called(ctx, patientID, today)
	prescriptions, _ := args.Get(0).([]models.Prescription)
	return prescriptions, args.Error(1)
}

func (m *mockPrescriptionStore) GetEmergency(ctx context.Context) ([]models.Prescription, error) {
	args := m.Called(ctx)
	prescriptions, _ := args.Get(0).([]models.Prescription)
	return prescriptions, args.Error(1)
}
