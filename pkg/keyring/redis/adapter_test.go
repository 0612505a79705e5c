package redis_test

import (
	"os"
	"testing"
	"time"

	rediskeyring "github.com/urbanaid/urbanaid-go/pkg/keyring/redis"
	"github.com/urbanaid/urbanaid-go/pkg/keyring/testsuite"
)

func TestAdapterConformance(t *testing.T) {
	address := os.Getenv("URBANAID_TEST_REDIS_ADDR")
	if address == "" {
		t.Skip("set URBANAID_TEST_REDIS_ADDR to run redis keyring tests")
	}

	adapter := rediskeyring.NewAdapter(rediskeyring.Config{
		Address:     address,
		Namespace:   "urbanaid-test",
		DialTimeout: 5 * time.Second,
	})
	defer func() {
		if err := adapter.Close(); err != nil {
			t.Errorf("failed to close adapter: %v", err)
		}
	}()

	testsuite.Run(t, adapter)
}
