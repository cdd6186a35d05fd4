package types

import (
	"strings"
	"testing"
)

func TestValidateContentRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
		errMsg  string
	}{
		{
			name: "ipfs uri",
			ref:  "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		},
		{
			name: "arweave uri",
			ref:  "ar://bNbA3TEQVL60xlgCcqdz4ZPHFZ711cZ3hmkpGttDt_U",
		},
		{
			name: "https uri",
			ref:  "https://data.example.org/batches/42.tar",
		},
		{
			name: "bare cid",
			ref:  "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		},
		{
			name:    "empty",
			ref:     "",
			wantErr: true,
			errMsg:  "cannot be empty",
		},
		{
			name:    "too long",
			ref:     "ipfs://" + strings.Repeat("a", MaxDataRefLength),
			wantErr: true,
			errMsg:  "exceeds maximum",
		},
		{
			name:    "whitespace",
			ref:     "ipfs://bafy bei",
			wantErr: true,
			errMsg:  "invalid character",
		},
		{
			name:    "control character",
			ref:     "bafy\x00bei",
			wantErr: true,
			errMsg:  "invalid character",
		},
		{
			name:    "disallowed scheme",
			ref:     "file:///etc/passwd",
			wantErr: true,
			errMsg:  "not allowed",
		},
		{
			name:    "no identifier",
			ref:     "ipfs://",
			wantErr: true,
			errMsg:  "no content identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContentRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateContentRef() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidateContentRef() error = %v, want substring %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateDependencyName(t *testing.T) {
	for _, name := range []string{"", "groth16", "collateral", "static", "mock-verifier_2"} {
		if err := ValidateDependencyName(name); err != nil {
			t.Errorf("ValidateDependencyName(%q) = %v, want nil", name, err)
		}
	}
	for _, name := range []string{"Groth16", "1verifier", "with space", strings.Repeat("a", 65)} {
		if err := ValidateDependencyName(name); err == nil {
			t.Errorf("ValidateDependencyName(%q) = nil, want error", name)
		}
	}
}
