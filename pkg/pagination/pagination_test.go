package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Params{}.Normalize()
	if p.Page != DefaultPage || p.PerPage != DefaultPerPage {
		t.Fatalf("unexpected defaults %+v", p)
	}
	p = Params{Page: 3, PerPage: 1000}.Normalize()
	if p.PerPage != MaxPerPage {
		t.Fatalf("expected per_page capped at %d, got %d", MaxPerPage, p.PerPage)
	}
	if off := (Params{Page: 3, PerPage: 12}).Offset(); off != 24 {
		t.Fatalf("expected offset 24, got %d", off)
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		total  int64
		want   Meta
	}{
		{
			name:   "empty",
			params: Params{Page: 1, PerPage: 12},
			total:  0,
			want:   Meta{Page: 1, PerPage: 12, Total: 0, Pages: 0},
		},
		{
			name:   "first of three",
			params: Params{Page: 1, PerPage: 10},
			total:  25,
			want:   Meta{Page: 1, PerPage: 10, Total: 25, Pages: 3, HasNext: true},
		},
		{
			name:   "last page",
			params: Params{Page: 3, PerPage: 10},
			total:  25,
			want:   Meta{Page: 3, PerPage: 10, Total: 25, Pages: 3, HasPrev: true},
		},
		{
			name:   "exact fit",
			params: Params{Page: 2, PerPage: 5},
			total:  10,
			want:   Meta{Page: 2, PerPage: 5, Total: 10, Pages: 2, HasPrev: true},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NewMeta(tc.params, tc.total); got != tc.want {
				t.Fatalf("expected %+v got %+v", tc.want, got)
			}
		})
	}
}
