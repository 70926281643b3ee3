package api

import "testing"

func TestFilterQueryOmitsEmptyFields(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"empty", Filter{}, ""},
		{"title only", Filter{Title: "定例"}, "title=%E5%AE%9A%E4%BE%8B"},
		{"participant only", Filter{Participant: "yamada"}, "participant=yamada"},
		{"dates only", Filter{StartDate: "2024-05-01", EndDate: "2024-05-31"},
			"end_date=2024-05-31&start_date=2024-05-01"},
		{"all fields", Filter{Title: "t", Participant: "p", StartDate: "a", EndDate: "b"},
			"end_date=b&participant=p&start_date=a&title=t"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Query().Encode(); got != tc.want {
				t.Errorf("Query() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFilterQueryDeterministic(t *testing.T) {
	f := Filter{Title: "定例", Participant: "yamada", StartDate: "2024-05-01"}
	first := f.Query().Encode()
	for i := 0; i < 5; i++ {
		if got := f.Query().Encode(); got != first {
			t.Fatalf("Query() not stable: %q vs %q", got, first)
		}
	}
}
