package users

import "testing"

func TestCalculateWithdrawalCharge(t *testing.T) {
	tests := []struct {
		name          string
		amount        float64
		chargePercent float64
		wantCharge    float64
		wantFinal     float64
	}{
		{"no charge", 500, 0, 0, 500},
		{"five percent", 1000, 5, 50, 950},
		{"rounds to paise", 333, 5, 16.65, 316.35},
		{"minimum amount", 100, 10, 10, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charge, final := CalculateWithdrawalCharge(tt.amount, tt.chargePercent)
			if charge != tt.wantCharge {
				t.Errorf("charge = %v, want %v", charge, tt.wantCharge)
			}
			if final != tt.wantFinal {
				t.Errorf("final = %v, want %v", final, tt.wantFinal)
			}
		})
	}
}

func TestMaskAccountNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456789012", "1234****9012"},
		{"12345678", "1234****5678"},
		{"123456", "123456"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskAccountNumber(tt.in); got != tt.want {
			t.Errorf("MaskAccountNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
