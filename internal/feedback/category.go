package feedback

// Category is one of the fixed feedback dimensions of a submission.
type Category string

const (
	Teaching        Category = "Teaching"
	CourseContent   Category = "CourseContent"
	Examination     Category = "Examination"
	Labwork         Category = "Labwork"
	Library         Category = "Library"
	Extracurricular Category = "Extracurricular"
)

// CategoryCount is the number of categories in every record.
const CategoryCount = 6

// ColumnCount is the number of columns an input table must have:
// one rating and one feedback column per category.
const ColumnCount = 2 * CategoryCount

// Categories lists the categories in their fixed positional order.
var Categories = [CategoryCount]Category{
	Teaching,
	CourseContent,
	Examination,
	Labwork,
	Library,
	Extracurricular,
}

// SentimentOrder is the order of the sentiment columns in the augmented table.
// It differs from Categories; readers must look labels up by category.
var SentimentOrder = [CategoryCount]Category{
	Teaching,
	Library,
	Labwork,
	Extracurricular,
	CourseContent,
	Examination,
}

// Index returns the position of c in Categories, or -1 if c is unknown.
func (c Category) Index() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

func (c Category) RatingColumn() string    { return string(c) + "_Rating" }
func (c Category) FeedbackColumn() string  { return string(c) + "_Feedback" }
func (c Category) SentimentColumn() string { return string(c) + "_Sentiment" }

// SatisfactionColumn is the header of the per-record satisfaction tier.
const SatisfactionColumn = "Satisfaction_Level"

// BaseColumns returns the twelve positional column names assigned to input tables.
func BaseColumns() []string {
	cols := make([]string, 0, ColumnCount)
	for _, c := range Categories {
		cols = append(cols, c.RatingColumn(), c.FeedbackColumn())
	}
	return cols
}

// AugmentedColumns returns the column order of the augmented table: the base
// columns, one sentiment column per category in SentimentOrder, then the
// satisfaction tier.
func AugmentedColumns() []string {
	cols := BaseColumns()
	for _, c := range SentimentOrder {
		cols = append(cols, c.SentimentColumn())
	}
	return append(cols, SatisfactionColumn)
}

// SummaryColumns is the header of the category summary table.
var SummaryColumns = []string{"Category", "Average Rating", "Positive Feedback (%)"}
