package attachment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/stretchr/testify/assert"
)

func TestIsTimeout(t *testing.T) {
	timeouts := []error{
		&googleapi.Error{Code: 504},
		&googleapi.Error{Code: 408},
		context.DeadlineExceeded,
		fmt.Errorf("upload failed: %w", context.DeadlineExceeded),
	}
	for _, err := range timeouts {
		assert.True(t, IsTimeout(err), "expected timeout-class: %v", err)
	}

	others := []error{
		nil,
		errors.New("access denied"),
		&googleapi.Error{Code: 403},
		&googleapi.Error{Code: 500},
		context.Canceled,
	}
	for _, err := range others {
		assert.False(t, IsTimeout(err), "expected non-timeout: %v", err)
	}
}
