package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/moodboard/pkg/httputil"
)

func ExampleRetry() {
	attempt := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempt++
		if attempt < 3 {
			return httputil.Retryable(errors.New("502 bad gateway"))
		}
		return nil
	})
	fmt.Println("attempts:", attempt)
	fmt.Println("error:", err)
	// Output:
	// attempts: 3
	// error: <nil>
}

func ExampleRetry_permanent() {
	attempt := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempt++
		return errors.New("404 not found")
	})
	fmt.Println("attempts:", attempt)
	fmt.Println("error:", err)
	// Output:
	// attempts: 1
	// error: 404 not found
}
