package recommend

import "fmt"

const promptTemplate = `
You are a Bible assistant for Fellowship AI App.

The user feels: %s
The user is thinking: %q

Return EXACTLY 4 Bible verses that provide encouragement and comfort.

IMPORTANT RULES:
1. Return ONLY valid JSON, no other text
2. Keep verse texts CONCISE (max 250 characters)
3. Schema: {"verses":[{"reference":"string","text":"string"}]}
4. Ensure all strings are properly escaped and terminated.

Example Response:
{
  "verses": [
    {
      "reference": "Psalm 34:17-18",
      "text": "The righteous cry out, and the Lord hears them; he delivers them from all their troubles. The Lord is close to the brokenhearted and saves those who are crushed in spirit."
    },
    {
      "reference": "Isaiah 41:10",
      "text": "So do not fear, for I am with you; do not be dismayed, for I am your God. I will strengthen you and help you; I will uphold you with my righteous right hand."
    }
  ]
}
`

// Prompt renders the user message sent with every recommendation request.
func Prompt(mood, thought string) string {
	return fmt.Sprintf(promptTemplate, mood, thought)
}
