package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"upi keyword", "share your UPI id", Financial},
		{"transfer keyword", "transfer the amount now", Financial},
		{"otp keyword", "tell me the OTP", Credential},
		{"verify keyword", "verify your identity", Credential},
		{"kyc keyword", "your KYC has expired", Urgency},
		{"police keyword", "the police will be informed", Urgency},
		{"no keyword", "hello how are you", General},
		{"empty text", "", General},
		{"case insensitive", "PAY me immediately", Financial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Group order is fixed: FINANCIAL beats CREDENTIAL beats URGENCY.
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"financial beats credential", "please pay and then share the otp", Financial},
		{"financial beats urgency", "transfer now or the account gets blocked", Financial},
		{"credential beats urgency", "urgent: share the otp", Credential},
		{"all three present", "urgent kyc: verify the otp and pay via upi", Financial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
