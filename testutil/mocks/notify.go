package mocks

import (
	"context"
	"sync"

	"github.com/propertytek/chatflow/notify"
	"github.com/propertytek/chatflow/types"
)

// SMSCall records one SendSMS invocation.
type SMSCall struct {
	To   string
	Body string
}

// SMSSender is a mock SMS provider.
type SMSSender struct {
	mu sync.Mutex

	result  types.SendResult
	sendErr error

	Calls []SMSCall
}

var _ notify.Sender = (*SMSSender)(nil)

// NewSMSSender creates a mock that reports successful delivery.
func NewSMSSender() *SMSSender {
	return &SMSSender{
		result: types.SendResult{Success: true, MessageID: "SM-mock-1"},
	}
}

// WithResult fixes the delivery outcome.
func (m *SMSSender) WithResult(res types.SendResult) *SMSSender {
	m.result = res
	return m
}

// WithError makes SendSMS fail.
func (m *SMSSender) WithError(err error) *SMSSender {
	m.sendErr = err
	return m
}

func (m *SMSSender) SendSMS(ctx context.Context, to, body string) (types.SendResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, SMSCall{To: to, Body: body})
	m.mu.Unlock()

	if m.sendErr != nil {
		return types.SendResult{}, m.sendErr
	}
	return m.result, nil
}
