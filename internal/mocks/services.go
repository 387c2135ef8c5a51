package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/notepath-api/internal/mail"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/notepath-api/internal/storage"
)

// MockObjectStore keeps uploaded objects in memory
type MockObjectStore struct {
	mu       sync.Mutex
	Objects  map[string][]byte
	Types    map[string]string
	Deleted  []string
	PutError error
	PutCalls int
	BaseURL  string
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
		BaseURL: "https://cdn.test/article-images",
	}
}

func (m *MockObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	m.mu.Lock()
	m.PutCalls++
	m.mu.Unlock()
	if m.PutError != nil {
		return "", m.PutError
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("size mismatch: got %d, declared %d", len(data), size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return m.BaseURL + "/" + key, nil
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// Has reports whether an object is stored under key
func (m *MockObjectStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

// Count returns the number of stored objects
func (m *MockObjectStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// MockCodeStore keeps one-time codes and failed-attempt counts in memory, ignoring expiry
type MockCodeStore struct {
	mu       sync.Mutex
	Codes    map[string]string
	Attempts map[string]int64
}

func NewMockCodeStore() *MockCodeStore {
	return &MockCodeStore{
		Codes:    make(map[string]string),
		Attempts: make(map[string]int64),
	}
}

func (m *MockCodeStore) SaveCode(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Codes[purpose+":"+email] = code
	delete(m.Attempts, purpose+":"+email)
	return nil
}

func (m *MockCodeStore) GetCode(ctx context.Context, purpose, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Codes[purpose+":"+email], nil
}

func (m *MockCodeStore) DeleteCode(ctx context.Context, purpose, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Codes, purpose+":"+email)
	delete(m.Attempts, purpose+":"+email)
	return nil
}

func (m *MockCodeStore) RecordFailedAttempt(ctx context.Context, purpose, email string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts[purpose+":"+email]++
	return m.Attempts[purpose+":"+email], nil
}

// MockRevoker records revoked token ids
type MockRevoker struct {
	mu      sync.Mutex
	Revoked map[string]bool
}

func NewMockRevoker() *MockRevoker {
	return &MockRevoker{Revoked: make(map[string]bool)}
}

func (m *MockRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Revoked[tokenID] = true
	return nil
}

func (m *MockRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Revoked[tokenID], nil
}

// MockMailSender captures delivered messages
type MockMailSender struct {
	mu        sync.Mutex
	Sent      []models.MailMessage
	SendError error
	SendFunc  func(ctx context.Context, msg models.MailMessage) error
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{}
}

func (m *MockMailSender) Send(ctx context.Context, msg models.MailMessage) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// Messages returns a copy of everything sent so far
func (m *MockMailSender) Messages() []models.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.MailMessage(nil), m.Sent...)
}

// MockMailService records enqueued messages without delivering them
type MockMailService struct {
	mu       sync.Mutex
	Queued   []models.MailMessage
	Started  bool
	QueueErr error
}

func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

func (m *MockMailService) StartProcessor(ctx context.Context) {
	m.mu.Lock()
	m.Started = true
	m.mu.Unlock()
	<-ctx.Done()
}

func (m *MockMailService) StopProcessor() {}

func (m *MockMailService) Enqueue(msg models.MailMessage) error {
	if m.QueueErr != nil {
		return m.QueueErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queued = append(m.Queued, msg)
	return nil
}

var (
	_ storage.ObjectStore  = (*MockObjectStore)(nil)
	_ service.CodeStore    = (*MockCodeStore)(nil)
	_ service.TokenRevoker = (*MockRevoker)(nil)
	_ mail.Sender          = (*MockMailSender)(nil)
	_ service.MailService  = (*MockMailService)(nil)
)
