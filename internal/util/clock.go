package util

import "time"

// Now devolve o horário atual em UTC; substituível em testes.
var Now = func() time.Time {
	return time.Now().UTC()
}
