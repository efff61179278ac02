// Package folio genera números de documento con secuencia diaria:
// PREFIJO-YYYYMMDD-NNNN. La secuencia arranca en 0001 cada día.
package folio

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix arma el prefijo del día, p. ej. Prefix("PED", hoy) => "PED-20260901-".
func Prefix(kind string, day time.Time) string {
	return fmt.Sprintf("%s-%s-", kind, day.Format("20060102"))
}

// Next devuelve el siguiente número dado el mayor ya asignado con ese prefijo.
// last vacío (primer documento del día) produce PREFIJO0001.
func Next(prefix, last string) string {
	seq := 0
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1)
}
