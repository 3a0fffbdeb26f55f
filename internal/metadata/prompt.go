package metadata

import "fmt"

// maxInferChars bounds the document prefix sent to the structured-extraction
// service.
const maxInferChars = 10000

// BuildInstruction returns the fixed extraction instruction. fileFormat is the
// pre-computed format guess passed as context; the service may override it in
// its reply.
func BuildInstruction(sourceType, fileFormat string) string {
	return fmt.Sprintf(`You are a metadata extraction assistant for an automotive document archive. The source is a %s with file format %q. Analyze the document text that follows and extract its metadata.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation, just the raw JSON object, following this schema exactly:
{
  "type": "",
  "source": "",
  "region": "",
  "country": "",
  "model": "",
  "xev": "",
  "year1": "",
  "year2": "",
  "language": "",
  "version": "",
  "file_format": "",
  "content_summary": ""
}

Rules:
- "type" is the document genre (brochure, spec sheet, press release, manual, presentation).
- "model" is the vehicle model name mentioned most prominently.
- "xev" is the electrification type (BEV, HEV, PHEV) or empty for non-hybrid vehicles.
- "year1"/"year2" bound the model years covered; use the same value for a single year.
- "language" is the ISO 639-1 code of the dominant language.
- Leave any field you cannot determine as an empty string.
- "content_summary" is a two-sentence factual summary of the document.`, sourceType, fileFormat)
}
