package domain

import "time"

// DateLayout é o formato de data aceito nos formulários.
const DateLayout = "2006-01-02"

// DateOf retorna a data civil de t no fuso loc, representada como meia-noite UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped soma n meses a t, limitando o dia ao último dia do mês de destino
// (31/01 + 1 mês = 28/02 ou 29/02).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
