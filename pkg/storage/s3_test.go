package storage

import (
	"regexp"
	"testing"
)

func TestAssetKey(t *testing.T) {
	key := AssetKey("acme", "logo", ".png")
	pattern := regexp.MustCompile(`^companies/acme/logos/\d+-logo\.png$`)
	if !pattern.MatchString(key) {
		t.Fatalf("unexpected key %q", key)
	}

	key = AssetKey("acme", "banner", ".jpg")
	pattern = regexp.MustCompile(`^companies/acme/banners/\d+-banner\.jpg$`)
	if !pattern.MatchString(key) {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestExtensionForContentType(t *testing.T) {
	cases := []struct {
		contentType string
		wantExt     string
		wantOK      bool
	}{
		{"image/png", ".png", true},
		{"image/jpeg", ".jpg", true},
		{"IMAGE/PNG", ".png", true},
		{"image/svg+xml", ".svg", true},
		{"application/pdf", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		ext, ok := ExtensionForContentType(tc.contentType)
		if ext != tc.wantExt || ok != tc.wantOK {
			t.Errorf("ExtensionForContentType(%q) = %q, %v; want %q, %v",
				tc.contentType, ext, ok, tc.wantExt, tc.wantOK)
		}
	}
}

func TestPublicObjectURLRoundTrip(t *testing.T) {
	s := &S3{cfg: S3Config{Region: "us-east-1", AssetsBucket: "careerforge-assets"}}

	key := "companies/acme/logos/123-logo.png"
	url := s.PublicObjectURL(key)
	want := "https://careerforge-assets.s3.us-east-1.amazonaws.com/" + key
	if url != want {
		t.Fatalf("expected %q, got %q", want, url)
	}

	got, ok := s.KeyFromURL(url)
	if !ok || got != key {
		t.Fatalf("round trip failed: %q %v", got, ok)
	}
}

func TestKeyFromURLRejectsForeignURLs(t *testing.T) {
	s := &S3{cfg: S3Config{Region: "us-east-1", AssetsBucket: "careerforge-assets"}}

	for _, url := range []string{
		"https://other-bucket.s3.us-east-1.amazonaws.com/companies/acme/logos/1-logo.png",
		"https://careerforge-assets.s3.eu-west-1.amazonaws.com/companies/acme/logos/1-logo.png",
		"https://careerforge-assets.s3.us-east-1.amazonaws.com/",
		"not a url",
	} {
		if _, ok := s.KeyFromURL(url); ok {
			t.Errorf("expected rejection of %q", url)
		}
	}
}
