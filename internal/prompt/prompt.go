package prompt

import (
	"fmt"
)

// System is the system message sent with every explanation request.
const System = "You are a cybersecurity expert specializing in phishing detection. Provide detailed, accurate analysis with specific evidence."

const template = `You are an expert cybersecurity analyst specializing in phishing detection. Analyze the following content for phishing indicators.

Content to analyze:
%s

Please provide a comprehensive analysis with the following structure:

1. VERDICT: Classify as one of these:
   - "Safe" - legitimate content with no phishing indicators
   - "Suspicious" - contains some concerning elements but not definitively phishing
   - "High-risk" - clear phishing attempt with multiple red flags

2. CONFIDENCE: Provide a confidence score from 0-100%%

3. EXPLANATION: A brief 2-3 sentence explanation of why you reached this verdict

4. HIGHLIGHTED_CONTENT: Return the original content with risky parts wrapped in tags:
   - Use <red>text</red> for high-risk elements (dangerous URLs, credential requests, etc.)
   - Use <yellow>text</yellow> for suspicious elements (urgency tactics, spelling errors, etc.)
   - Keep safe text unchanged

5. METADATA:
   - Input type (Email, SMS, URL, or Text)
   - Number of suspicious elements found
   - List of extracted URLs (if any)
   - List of suspicious senders/domains (if applicable)

Format your response EXACTLY as follows (use these exact section headers):

VERDICT: [Safe/Suspicious/High-risk]
CONFIDENCE: [number]%%
EXPLANATION: [your explanation]
HIGHLIGHTED_CONTENT:
[content with <red> and <yellow> tags]
METADATA:
Input Type: [type]
Suspicious Elements: [number]
URLs Found: [list or "None"]
Senders/Domains: [list or "None"]`

// Build renders the analysis prompt for the given content.
func Build(text string) string {
	return fmt.Sprintf(template, text)
}
