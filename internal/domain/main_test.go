package domain

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(tm *testing.M) {
	goleak.VerifyTestMain(tm)
}
