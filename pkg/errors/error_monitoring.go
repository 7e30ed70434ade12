// Package errors provides error handling utilities for the connection engine.
package errors

import (
	"sync"
	"time"

	"github.com/tapvolt/connect-engine/pkg/logging"
)

// ErrorMetrics tracks error counts for monitoring purposes.
type ErrorMetrics struct {
	ErrorCounts            map[string]int
	RateLimitCount         int
	NetworkErrorCount      int
	AuthErrorCount         int
	ValidationErrorCount   int
	OperationErrorCount    int
	ResourceBusyErrorCount int
	LastErrorTime          map[string]time.Time
	ErrorRates             map[string]float64

	mu sync.RWMutex
}

var (
	globalMetrics     *ErrorMetrics
	globalMetricsOnce sync.Once
)

// GetErrorMetrics returns the global error metrics instance.
func GetErrorMetrics() *ErrorMetrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = &ErrorMetrics{
			ErrorCounts:   make(map[string]int),
			LastErrorTime: make(map[string]time.Time),
			ErrorRates:    make(map[string]float64),
		}
		go globalMetrics.monitorErrorRates()
	})
	return globalMetrics
}

// RecordError records an error for monitoring purposes.
func (m *ErrorMetrics) RecordError(err error) {
	if err == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	errorType := "unknown"
	switch {
	case IsNetworkError(err):
		errorType = "network"
		m.NetworkErrorCount++
	case IsAuthError(err):
		errorType = "auth"
		m.AuthErrorCount++
	case IsValidationError(err):
		errorType = "validation"
		m.ValidationErrorCount++
	case IsOperationError(err):
		errorType = "operation"
		m.OperationErrorCount++
	case IsResourceBusyError(err):
		errorType = "resource_busy"
		m.ResourceBusyErrorCount++
		m.RateLimitCount++
	}

	m.ErrorCounts[errorType]++
	m.LastErrorTime[errorType] = time.Now()
}

func (m *ErrorMetrics) monitorErrorRates() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.calculateErrorRates()
		m.logErrorMetrics()
	}
}

func (m *ErrorMetrics) calculateErrorRates() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for errorType, lastTime := range m.LastErrorTime {
		count := m.ErrorCounts[errorType]
		duration := now.Sub(lastTime).Minutes()
		if duration > 0 && count > 0 {
			m.ErrorRates[errorType] = float64(count) / duration
		}
	}
}

func (m *ErrorMetrics) logErrorMetrics() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logging.Info().
		Int("total_errors", sumMapValues(m.ErrorCounts)).
		Int("network_errors", m.NetworkErrorCount).
		Int("auth_errors", m.AuthErrorCount).
		Int("validation_errors", m.ValidationErrorCount).
		Int("operation_errors", m.OperationErrorCount).
		Int("resource_busy_errors", m.ResourceBusyErrorCount).
		Int("rate_limit_errors", m.RateLimitCount).
		Msg("Error metrics summary")

	for errorType, rate := range m.ErrorRates {
		logging.Info().
			Str("error_type", errorType).
			Float64("errors_per_minute", rate).
			Msg("Error rate")
	}
}

// GetMetrics returns a copy of the current error metrics.
func (m *ErrorMetrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int, len(m.ErrorCounts))
	for k, v := range m.ErrorCounts {
		counts[k] = v
	}
	rates := make(map[string]float64, len(m.ErrorRates))
	for k, v := range m.ErrorRates {
		rates[k] = v
	}

	return map[string]interface{}{
		"error_counts":         counts,
		"network_error_count":  m.NetworkErrorCount,
		"auth_error_count":     m.AuthErrorCount,
		"validation_error_count": m.ValidationErrorCount,
		"operation_error_count":  m.OperationErrorCount,
		"resource_busy_count":    m.ResourceBusyErrorCount,
		"rate_limit_count":       m.RateLimitCount,
		"error_rates":            rates,
	}
}

// ResetMetrics resets all error metrics. Used by tests.
func (m *ErrorMetrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCounts = make(map[string]int)
	m.NetworkErrorCount = 0
	m.AuthErrorCount = 0
	m.ValidationErrorCount = 0
	m.OperationErrorCount = 0
	m.ResourceBusyErrorCount = 0
	m.RateLimitCount = 0
	m.LastErrorTime = make(map[string]time.Time)
	m.ErrorRates = make(map[string]float64)
}

func sumMapValues(m map[string]int) int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}

// MonitorError records an error in the global metrics.
func MonitorError(err error) {
	if err == nil {
		return
	}
	GetErrorMetrics().RecordError(err)
}

// WrapAndMonitor wraps an error, records it for monitoring, and returns it.
func WrapAndMonitor(err error, message string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	MonitorError(wrapped)
	return wrapped
}
