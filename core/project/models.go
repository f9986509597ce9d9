package project

import (
	"github.com/volatiletech/null/v8"
)

const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
)

type (
	Project struct {
		ID            int64        `json:"id"`
		Title         string       `json:"title"`
		Subject       string       `json:"subject"`
		Deadline      string       `json:"deadline"` // YYYY-MM-DD
		GroupID       string       `json:"groupId"`
		GroupName     string       `json:"groupName"`
		GroupStudents []string     `json:"groupStudents"`
		Submissions   []Submission `json:"submissions"`
		Tasks         []Task       `json:"tasks"`
	}

	// Submission is a whole-project upload by one student.
	Submission struct {
		StudentID string `json:"studentId"`
		FileName  string `json:"fileName"`
		FileType  string `json:"fileType"`
		FileData  string `json:"fileData"` // data url
		Timestamp string `json:"timestamp"`
	}

	// Task is a unit of work inside a project, assigned to one group member.
	// The submission fields stay null while the task is pending.
	Task struct {
		ID              string      `json:"id"`
		Title           string      `json:"title"`
		AssignedBy      string      `json:"assignedBy"`
		AssignedTo      string      `json:"assignedTo"`
		Status          string      `json:"status"`
		SubmittedBy     null.String `json:"submittedBy"`
		FileData        null.String `json:"fileData"`
		FileName        null.String `json:"fileName"`
		SubmitTimestamp null.String `json:"submitTimestamp"`
		Timestamp       string      `json:"timestamp"`
	}

	NewProject struct {
		Title    string `json:"title" validate:"notblank"`
		Subject  string `json:"subject" validate:"required,subject"`
		Deadline string `json:"deadline" validate:"required,date"`
		GroupID  string `json:"groupId" validate:"required,group"`
	}

	UpdateProject NewProject

	NewTask struct {
		Title      string `json:"title" validate:"notblank,max=100"`
		AssignedTo string `json:"assignedTo" validate:"notblank"`
	}

	UpdateTask NewTask

	// Summary holds the counters shown on a student's dashboard.
	Summary struct {
		Student   string `json:"student"`
		Total     int    `json:"total"`
		Submitted int    `json:"submitted"`
	}
)

func (p Project) HasStudent(student string) bool {
	for _, s := range p.GroupStudents {
		if s == student {
			return true
		}
	}
	return false
}

// TaskIndex returns the position of the task with `id`, or -1.
func (p Project) TaskIndex(id string) int {
	for i, t := range p.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SubmissionBy returns the student's project submission, if any.
func (p Project) SubmissionBy(student string) (Submission, bool) {
	for _, s := range p.Submissions {
		if s.StudentID == student {
			return s, true
		}
	}
	return Submission{}, false
}

func (t Task) IsSubmitted() bool { return t.Status == StatusSubmitted }

func (p *Project) normalize() {
	if p.GroupStudents == nil {
		p.GroupStudents = []string{}
	}
	if p.Submissions == nil {
		p.Submissions = []Submission{}
	}
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
}
