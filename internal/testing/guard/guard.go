package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("BIOPRIME_TEST_MODE") == "" {
			_ = os.Setenv("BIOPRIME_TEST_MODE", "1")
		}
	})
}
