package cost

import (
	"math"
	"time"
)

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func todayISO() string {
	return time.Now().UTC().Format("2006-01-02")
}
