package health

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockDBChecker struct {
	mock.Mock
}

func (m *MockDBChecker) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheChecker struct {
	mock.Mock
}

func (m *MockCacheChecker) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockKafkaChecker struct {
	mock.Mock
}

func (m *MockKafkaChecker) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
