package feedback

// NullFloat is a number that may be missing. Ratings that could not be coerced
// and means over no values are missing rather than zero.
type NullFloat struct {
	Float64 float64 `json:"value"`
	Valid   bool    `json:"valid"`
}

// Float returns a present value.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// Missing is the absent number.
var Missing = NullFloat{}

// NullString is free text that may be absent.
type NullString struct {
	String string `json:"text"`
	Valid  bool   `json:"valid"`
}

// Text returns present text.
func Text(s string) NullString { return NullString{String: s, Valid: true} }

// Entry is the (rating, feedback) pair of one category in one record.
type Entry struct {
	Rating   NullFloat  `json:"rating"`
	Feedback NullString `json:"feedback"`
}

// Record is one respondent's normalized submission, indexed by category position.
type Record struct {
	Entries [CategoryCount]Entry `json:"entries"`
}

// Entry returns the entry for category c.
func (r Record) Entry(c Category) Entry {
	return r.Entries[c.Index()]
}

// Label is a sentiment classification of a feedback text.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// Labels lists the sentiment labels in reporting order.
var Labels = [3]Label{Positive, Negative, Neutral}

// SatisfactionLevel is the coarse tier of a respondent's mean rating.
// The zero value means the tier is undefined because every rating is missing.
type SatisfactionLevel string

const (
	SatisfactionUndefined SatisfactionLevel = ""
	SatisfactionHigh      SatisfactionLevel = "High"
	SatisfactionMedium    SatisfactionLevel = "Medium"
	SatisfactionLow       SatisfactionLevel = "Low"
)

// SatisfactionLevels lists the defined tiers in reporting order.
var SatisfactionLevels = [3]SatisfactionLevel{SatisfactionHigh, SatisfactionMedium, SatisfactionLow}

// AugmentedRecord is a normalized record with its derived sentiment labels and
// satisfaction tier.
type AugmentedRecord struct {
	Record
	Sentiments   [CategoryCount]Label `json:"sentiments"`
	Satisfaction SatisfactionLevel    `json:"satisfaction"`
}

// Sentiment returns the label derived from the feedback of category c.
func (r AugmentedRecord) Sentiment(c Category) Label {
	return r.Sentiments[c.Index()]
}
