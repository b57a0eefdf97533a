package llm

import "strings"

const handwritingPrompt = `You are an OCR (Optical Character Recognition) expert. Convert the photo of handwritten notes into digital text. Only output the converted text. Do not include any additional information or conversation.`

const pdfPrompt = `You are an expert at extracting text from documents. Convert the attached PDF into digital text. Only output the converted text. Do not include any additional information or conversation.`

const mergePrompt = `You are a helpful assistant that merges notes from multiple students into a single, comprehensive set of notes. Remove any duplicate information and organize the notes in a logical order. Only output the merged notes.

Notes:
`

// visualSubjectLimit is how many characters of the notes describe the image subject.
const visualSubjectLimit = 200

// BuildMergePrompt lists every note, one per line, after the instructions.
func BuildMergePrompt(notes []string) string {
	var b strings.Builder
	b.WriteString(mergePrompt)
	for _, n := range notes {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return b.String()
}

// BuildVisualPrompt asks for a text-free header illustration whose subject
// is the start of the merged notes.
func BuildVisualPrompt(notes string) string {
	subject := notes
	if runes := []rune(notes); len(runes) > visualSubjectLimit {
		subject = string(runes[:visualSubjectLimit])
	}
	return "Generate a visually appealing and relevant header image for a document containing student notes. " +
		"The image should be abstract and conceptual, representing themes of learning, collaboration, and knowledge synthesis. " +
		"Do not include any text in the image. The notes are about: " + subject + "..."
}
