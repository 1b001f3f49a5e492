package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewNumber generates a human-readable order number: KNT-YYYYMMDD-XXXX.
// The suffix is random, so numbers are not sequential and leak no volume
// information.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("KNT-%s-%s", now.Format("20060102"), suffix)
}
