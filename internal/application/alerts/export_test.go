package alerts

import "time"

// SetClock fija el reloj del caso de uso.
func (uc *ExpirationUseCase) SetClock(now func() time.Time) { uc.now = now }
