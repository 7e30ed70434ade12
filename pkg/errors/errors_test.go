package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestUT_ER_01_01_Wrap_WithMessage_AddsContext tests the Wrap function.
func TestUT_ER_01_01_Wrap_WithMessage_AddsContext(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrap(originalErr, "context message")

	assert.Contains(t, wrappedErr.Error(), "context message")
	assert.Contains(t, wrappedErr.Error(), "original error")
	assert.True(t, Is(wrappedErr, originalErr))
	assert.Equal(t, originalErr, Unwrap(wrappedErr))
}

// TestUT_ER_01_02_Wrap_WithNilError_ReturnsNil tests the Wrap function with a nil error.
func TestUT_ER_01_02_Wrap_WithNilError_ReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context message"))
}

// TestUT_ER_02_01_Wrapf_WithFormattedMessage_AddsContext tests the Wrapf function.
func TestUT_ER_02_01_Wrapf_WithFormattedMessage_AddsContext(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrapf(originalErr, "context message with %s", "parameter")

	assert.Contains(t, wrappedErr.Error(), "context message with parameter")
	assert.Contains(t, wrappedErr.Error(), "original error")
	assert.True(t, Is(wrappedErr, originalErr))
	assert.Equal(t, originalErr, Unwrap(wrappedErr))
}

// TestUT_ER_02_02_Wrapf_WithNilError_ReturnsNil tests the Wrapf function with a nil error.
func TestUT_ER_02_02_Wrapf_WithNilError_ReturnsNil(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "context message with %s", "parameter"))
}

// TestUT_ER_06_01_ErrorChain_WithMultipleWraps_PreservesChain tests that error chains are preserved.
func TestUT_ER_06_01_ErrorChain_WithMultipleWraps_PreservesChain(t *testing.T) {
	originalErr := New("original error")
	wrappedOnce := Wrap(originalErr, "first wrap")
	wrappedTwice := Wrap(wrappedOnce, "second wrap")
	wrappedThrice := Wrap(wrappedTwice, "third wrap")

	assert.Contains(t, wrappedThrice.Error(), "third wrap")
	assert.Contains(t, wrappedThrice.Error(), "second wrap")
	assert.Contains(t, wrappedThrice.Error(), "first wrap")
	assert.Contains(t, wrappedThrice.Error(), "original error")

	assert.True(t, Is(wrappedThrice, originalErr))
	assert.Equal(t, wrappedTwice, Unwrap(wrappedThrice))
	assert.Equal(t, wrappedOnce, Unwrap(wrappedTwice))
	assert.Equal(t, originalErr, Unwrap(wrappedOnce))
	assert.Nil(t, Unwrap(originalErr))
}

// TestUT_ER_07_01_As_WithCustomErrorType_FindsMatchingType tests the As function.
func TestUT_ER_07_01_As_WithCustomErrorType_FindsMatchingType(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, "wrapped")

	var target error
	assert.True(t, As(wrappedErr, &target))
	assert.Contains(t, target.Error(), originalErr.Error())
}

// TestUT_ER_08_01_MultipleErrorTypes_InChain_CanBeIdentified tests identifying multiple error types in a chain.
func TestUT_ER_08_01_MultipleErrorTypes_InChain_CanBeIdentified(t *testing.T) {
	baseErr := New("base error")
	err1 := Wrap(baseErr, "error type 1")
	err2 := Wrap(err1, "error type 2")
	err3 := Wrap(err2, "error type 3")

	assert.True(t, Is(err3, baseErr))
	assert.True(t, Is(err3, err1))
	assert.True(t, Is(err3, err2))

	assert.Contains(t, err3.Error(), "base error")
	assert.Contains(t, err3.Error(), "error type 1")
	assert.Contains(t, err3.Error(), "error type 2")
	assert.Contains(t, err3.Error(), "error type 3")
}

// TestUT_ER_09_01_TypedError_ClassificationPredicates tests that the Is*Error
// predicates correctly classify constructed TypedErrors, including when wrapped.
func TestUT_ER_09_01_TypedError_ClassificationPredicates(t *testing.T) {
	netErr := NewNetworkError("dial failed", fmt.Errorf("connection refused"))
	assert.True(t, IsNetworkError(netErr))
	assert.False(t, IsAuthError(netErr))

	wrapped := Wrap(netErr, "transport error")
	assert.True(t, IsNetworkError(wrapped))

	authErr := NewAuthError("device not authorized", nil)
	assert.True(t, IsAuthError(authErr))
	assert.Equal(t, "AuthError: device not authorized", authErr.Error())
}

// TestUT_ER_09_02_TypedError_RecordedInMetrics tests that RecordError buckets
// a TypedError under the right counter.
func TestUT_ER_09_02_TypedError_RecordedInMetrics(t *testing.T) {
	metrics := GetErrorMetrics()
	metrics.ResetMetrics()

	metrics.RecordError(NewNetworkError("boom", nil))
	snapshot := metrics.GetMetrics()
	assert.Equal(t, 1, snapshot["network_error_count"])
}
