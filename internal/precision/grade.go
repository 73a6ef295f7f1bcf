package precision

// Grade is a letter grade for a run.
type Grade string

const (
	GradeNone Grade = "-"
	GradeSSS  Grade = "SSS"
	GradeSS   Grade = "SS"
	GradeS    Grade = "S"
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeD    Grade = "D"
)

// Grades lists the ladder from best to worst.
var Grades = []Grade{GradeSSS, GradeSS, GradeS, GradeA, GradeB, GradeC, GradeD}

// CalculateGrade applies the accuracy ladder. The two top tiers also require
// the average click distance from the target center, in pixels, to be small.
func CalculateGrade(accuracy, avgPixelDistance float64) Grade {
	switch {
	case accuracy > 95 && avgPixelDistance < 10:
		return GradeSSS
	case accuracy > 90 && avgPixelDistance < 15:
		return GradeSS
	case accuracy > 85:
		return GradeS
	case accuracy > 75:
		return GradeA
	case accuracy > 60:
		return GradeB
	case accuracy > 40:
		return GradeC
	default:
		return GradeD
	}
}
