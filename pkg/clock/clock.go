// Package clock abstrae la hora actual para que los cálculos de estado sean deterministas en tests.
package clock

import "time"

// Clock devuelve la hora actual.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Real reloj del sistema en UTC.
func Real() Clock { return realClock{} }

// Fixed reloj detenido en t.
type Fixed time.Time

// Now implementa Clock.
func (f Fixed) Now() time.Time { return time.Time(f) }
