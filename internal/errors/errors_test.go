package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	base := SchemaError("column AGE is missing")
	wrapped := Wrap(base, "loading train.csv")

	assert.Equal(t, CodeSchemaError, GetCode(wrapped))
	assert.Equal(t, "loading train.csv: column AGE is missing", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "step 3: boom", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %s", "x"))
	assert.NoError(t, WithCode(CodeDataError, nil, "ignored"))
}

func TestHasCode(t *testing.T) {
	inner := UnknownCategory("GARAGE", "maybe")
	outer := WithCode(CodeModelError, fmt.Errorf("fold 2: %w", inner), "ridge failed")

	assert.Equal(t, CodeModelError, GetCode(outer))
	assert.True(t, HasCode(outer, CodeModelError))
	assert.True(t, HasCode(outer, CodeUnknownCategory))
	assert.False(t, HasCode(outer, CodeWriteError))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeModelError))
}

func TestDataErrorMessage(t *testing.T) {
	err := DataError("failed to open train.csv", fmt.Errorf("no such file or directory"))
	assert.Equal(t, "failed to open train.csv: no such file or directory", err.Error())
	assert.Equal(t, CodeDataError, GetCode(err))
}
