package sleepstrategy

import "time"

func hoursDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
