package core

import "testing"

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name  string
		items []PrescriptionItem
		want  PrescriptionStatus
	}{
		{
			name: "nothing dispensed",
			items: []PrescriptionItem{
				{QuantityPrescribed: 3, QuantityDispensed: 0},
				{QuantityPrescribed: 1, QuantityDispensed: 0},
			},
			want: StatusPending,
		},
		{
			name: "one line partially dispensed",
			items: []PrescriptionItem{
				{QuantityPrescribed: 3, QuantityDispensed: 1},
				{QuantityPrescribed: 1, QuantityDispensed: 0},
			},
			want: StatusPartiallyFilled,
		},
		{
			name: "one line full, one untouched",
			items: []PrescriptionItem{
				{QuantityPrescribed: 3, QuantityDispensed: 3},
				{QuantityPrescribed: 1, QuantityDispensed: 0},
			},
			want: StatusPartiallyFilled,
		},
		{
			name: "every line full",
			items: []PrescriptionItem{
				{QuantityPrescribed: 3, QuantityDispensed: 3},
				{QuantityPrescribed: 1, QuantityDispensed: 1},
			},
			want: StatusFilled,
		},
		{
			name: "single line full",
			items: []PrescriptionItem{
				{QuantityPrescribed: 2, QuantityDispensed: 2},
			},
			want: StatusFilled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deriveStatus(tc.items); got != tc.want {
				t.Errorf("deriveStatus() = %s, want %s", got, tc.want)
			}
		})
	}
}
