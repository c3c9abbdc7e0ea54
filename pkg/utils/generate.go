package utils

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

var orderSequence atomic.Int64

// GenerateOrderNumber creates a globally-unique order number.
// Format: yyyyMMddHHmmssSSS (17 digits) + 3 digit random + 3 digit rolling
// sequence, 23 digits total. Collisions require two orders in the same
// millisecond drawing the same random part and the same sequence slot.
func GenerateOrderNumber() string {
	now := time.Now()
	timestamp := now.Format("20060102150405") + fmt.Sprintf("%03d", now.Nanosecond()/1e6)

	randomPart := fmt.Sprintf("%03d", rand.Intn(1000))
	sequencePart := fmt.Sprintf("%03d", orderSequence.Add(1)%1000)

	return timestamp + randomPart + sequencePart
}
