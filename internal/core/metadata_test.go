package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectInputType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want InputType
	}{
		{
			name: "bare url",
			text: "http://suspicious-site.com/login",
			want: InputURL,
		},
		{
			name: "bare url with surrounding whitespace",
			text: "  https://example.com/verify  ",
			want: InputURL,
		},
		{
			name: "email with header lines",
			text: "From: security@paypa1.com\nSubject: Account Suspended\n\nPlease verify your account.",
			want: InputEmail,
		},
		{
			name: "multiline text with address",
			text: "Hello,\nplease contact billing@acme-support.net for your refund.",
			want: InputEmail,
		},
		{
			name: "short message without link",
			text: "Your package is held at customs. Reply YES to release it.",
			want: InputSMS,
		},
		{
			name: "short message with link",
			text: "URGENT: Click here now! http://suspicious-site.com",
			want: InputText,
		},
		{
			name: "long prose",
			text: "Dear customer, we are writing to inform you about upcoming changes to our terms of service. " +
				"These changes take effect next month and cover billing, privacy and data retention. " +
				"No action is required on your part at this time.",
			want: InputText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectInputType(tt.text))
		})
	}
}

func TestExtractURLs(t *testing.T) {
	text := "Go to http://evil.example/login. Or try https://evil.example/login?x=1, " +
		"then http://evil.example/login again."

	urls := ExtractURLs(text)
	assert.Equal(t, []string{
		"http://evil.example/login",
		"https://evil.example/login?x=1",
	}, urls)
}

func TestExtractURLsStripsTrailingPunctuation(t *testing.T) {
	urls := ExtractURLs("See (http://a.example/path)! Also http://b.example/q?z=2.")
	assert.Equal(t, []string{"http://a.example/path", "http://b.example/q?z=2"}, urls)
}

func TestExtractURLsEmpty(t *testing.T) {
	assert.Empty(t, ExtractURLs("no links in here"))
}

func TestExtractSenderDomains(t *testing.T) {
	text := "From: Alice <alice@Example.COM>, backup alice@example.com, and bob@other.org"

	domains := ExtractSenderDomains(text)
	assert.Equal(t, []string{"example.com", "other.org"}, domains)
}

func TestCountSuspiciousElements(t *testing.T) {
	assert.Equal(t, 0, CountSuspiciousElements("See you at the meeting tomorrow."))

	n := CountSuspiciousElements("URGENT: verify your account now, your account is locked. Click here!")
	assert.GreaterOrEqual(t, n, 3)
}

func TestExtractMetadata(t *testing.T) {
	md := ExtractMetadata("From: it@corp-helpdesk.biz\nSubject: password expires\n\nClick here http://corp-helpdesk.biz/reset")

	assert.Equal(t, InputEmail, md.InputType)
	assert.Equal(t, []string{"http://corp-helpdesk.biz/reset"}, md.URLsFound)
	assert.Equal(t, []string{"corp-helpdesk.biz"}, md.SendersDomains)
	assert.Greater(t, md.SuspiciousElements, 0)
}
