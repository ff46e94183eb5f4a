package extraction

import "strings"

// buildExtractionPrompt interpolates the message text into the fixed
// instruction template. The template pins the output keys, the category
// enumeration, and the not_transaction escape hatch.
func buildExtractionPrompt(text string) string {
	return "Extract transaction details from this text (Indian context).\n" +
		"Text: \"" + text + "\"\n\n" +
		"Return ONLY a raw JSON object with these keys:\n" +
		"- \"amount\": number\n" +
		"- \"merchant\": string\n" +
		"- \"category\": string, one of: " + strings.Join(Categories, ", ") + "\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n\n" +
		"If the text is not a transaction, return {\"error\": \"not_transaction\"}\n"
}
