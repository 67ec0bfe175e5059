package ports

import "time"

// Clock fuente de tiempo inyectable; los casos de uso la usan para fijar "ahora" en tests.
type Clock func() time.Time

// SystemClock hora actual en UTC.
func SystemClock() time.Time { return time.Now().UTC() }
