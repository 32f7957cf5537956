package report

import "time"

// Section names extracted from a generated assessment, in render order.
const (
	SectionDiagnosis = "Diagnosis"
	SectionDrug      = "Proposed New Drug"
	SectionDosage    = "Hypothetical Dosage/Instructions"
	SectionSafety    = "Allergy/Safety Note"
)

// Disclaimer is appended to every rendered report.
const Disclaimer = "This is an AI-generated report for conceptual purposes only. Consult a medical professional."

// Assessment is the structured form of a generated diagnosis/drug-concept text.
type Assessment struct {
	Diagnosis string `json:"diagnosis"`
	Drug      string `json:"drug"`
	Dosage    string `json:"dosage"`
	Safety    string `json:"safety"`
}

// Report is the finished record consumed by the PDF renderer: a titled set of
// sections already translated into the user's language.
type Report struct {
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Sections    []Section `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Section is one titled block of report body text.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
