package project

import (
	"context"
	"fmt"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/payload"
	"github.com/trezcool/classtrack/core/session"
)

var (
	// errors
	ErrNotFound      = errors.New("project not found")
	ErrTaskNotFound  = errors.New("task not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrTaskSubmitted = errors.New("task has already been submitted")

	errProjectFields = "please fill all fields"
	errTaskFields    = "please enter task title and select assignee"
	errNotAssignee   = "you can only submit your assigned tasks"
	errNotTeacher    = "only teachers can assign tasks"

	nowFunc = time.Now
)

type (
	// Repository persists the whole project collection at once.
	Repository interface {
		LoadAll(ctx context.Context) ([]Project, error)
		SaveAll(ctx context.Context, projects []Project) error
	}

	ServiceDeps struct {
		Repo       Repository
		Directory  Directory
		Validate   *validator.Validate
		Translator ut.Translator
		MailSvc    core.EmailService
		Conf       *core.Config
	}

	// Service owns every read-modify-write cycle on the project collection.
	Service struct {
		mu         sync.Mutex
		lastID     int64
		repo       Repository
		dir        Directory
		validate   *validator.Validate
		translator ut.Translator
		mailSvc    core.EmailService
		conf       *core.Config
	}
)

func NewService(deps ServiceDeps) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Repo, "repo"),
		vala.IsNotNil(deps.Directory, "directory"),
		vala.IsNotNil(deps.Validate, "validate"),
		vala.IsNotNil(deps.Translator, "translator"),
		vala.IsNotNil(deps.MailSvc, "mailSvc"),
		vala.IsNotNil(deps.Conf, "conf"),
	).CheckAndPanic()

	return &Service{
		repo:       deps.Repo,
		dir:        deps.Directory,
		validate:   deps.Validate,
		translator: deps.Translator,
		mailSvc:    deps.MailSvc,
		conf:       deps.Conf,
	}
}

func (svc *Service) Directory() Directory { return svc.dir }

func (svc *Service) QueryAll(ctx context.Context) ([]Project, error) {
	return svc.load(ctx)
}

func (svc *Service) Get(ctx context.Context, id int64) (Project, error) {
	projects, err := svc.load(ctx)
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

func (svc *Service) Create(ctx context.Context, np NewProject) (Project, error) {
	np = NewProject(cleanProjectInput(UpdateProject(np)))
	if err := core.ValidateStruct(svc.validate, svc.translator, np, errProjectFields); err != nil {
		return Project{}, err
	}
	grp, err := svc.group(np.GroupID)
	if err != nil {
		return Project{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	projects, err := svc.load(ctx)
	if err != nil {
		return Project{}, err
	}
	prj := Project{
		ID:            svc.nextID(projects),
		Title:         np.Title,
		Subject:       np.Subject,
		Deadline:      np.Deadline,
		GroupID:       grp.ID,
		GroupName:     grp.Name,
		GroupStudents: grp.Students,
	}
	prj.normalize()
	if err = svc.save(ctx, append(projects, prj)); err != nil {
		return Project{}, err
	}
	return prj, nil
}

// Update replaces the editable fields, keeping the id, the submissions and the tasks.
func (svc *Service) Update(ctx context.Context, id int64, up UpdateProject) (Project, error) {
	up = cleanProjectInput(up)
	if err := core.ValidateStruct(svc.validate, svc.translator, up, errProjectFields); err != nil {
		return Project{}, err
	}
	grp, err := svc.group(up.GroupID)
	if err != nil {
		return Project{}, err
	}

	return svc.mutate(ctx, id, func(p *Project) error {
		p.Title = up.Title
		p.Subject = up.Subject
		p.Deadline = up.Deadline
		p.GroupID = grp.ID
		p.GroupName = grp.Name
		p.GroupStudents = grp.Students
		return nil
	})
}

// Delete removes the project with its submissions and tasks once `confirm` accepts.
func (svc *Service) Delete(ctx context.Context, id int64, confirm core.ConfirmFunc) error {
	prj, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !core.Confirmed(confirm, fmt.Sprintf("Delete project %q?", prj.Title)) {
		return core.ErrAborted
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	projects, err := svc.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return ErrNotFound
	}
	return svc.save(ctx, kept)
}

// RecordSubmission embeds the file and records it as the student's project submission.
// A later submission by the same student replaces the earlier one.
func (svc *Service) RecordSubmission(ctx context.Context, projectID int64, studentID string, f *payload.File) (Project, error) {
	studentID = core.CleanString(studentID)
	if studentID == "" {
		return Project{}, core.NewValidationError(
			errors.New("please log in as a student"),
			core.FieldError{Field: "studentId", Error: "this field is required"},
		)
	}
	if _, err := svc.Get(ctx, projectID); err != nil {
		return Project{}, err
	}

	pl, err := payload.Encode(ctx, f, svc.conf.MaxUploadSize)
	if err != nil {
		return Project{}, err
	}

	sub := Submission{
		StudentID: studentID,
		FileName:  pl.Name,
		FileType:  pl.Type,
		FileData:  pl.Data,
		Timestamp: core.FormatTimestamp(nowFunc()),
	}
	prj, err := svc.mutate(ctx, projectID, func(p *Project) error {
		for i, s := range p.Submissions {
			if s.StudentID == studentID {
				p.Submissions[i] = sub
				return nil
			}
		}
		p.Submissions = append(p.Submissions, sub)
		return nil
	})
	if err != nil {
		return Project{}, err
	}

	svc.notify(
		fmt.Sprintf("New submission for %s", prj.Title),
		fmt.Sprintf("%s submitted %q for project %q (%s) at %s.", studentID, sub.FileName, prj.Title, prj.Subject, sub.Timestamp),
	)
	return prj, nil
}

// StudentSummary counts all projects and those the student has submitted.
func (svc *Service) StudentSummary(ctx context.Context, student string) (Summary, error) {
	projects, err := svc.load(ctx)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Student: student, Total: len(projects)}
	for _, p := range projects {
		if _, ok := p.SubmissionBy(student); ok {
			sum.Submitted++
		}
	}
	return sum, nil
}

// CreateTask assigns a new pending task to a member of the project group.
func (svc *Service) CreateTask(ctx context.Context, projectID int64, sess session.Session, nt NewTask) (Task, error) {
	if !sess.IsTeacher() {
		return Task{}, core.NewPermissionError(errNotTeacher)
	}
	nt.Title = core.CleanString(nt.Title)
	nt.AssignedTo = core.CleanString(nt.AssignedTo)
	if err := core.ValidateStruct(svc.validate, svc.translator, nt, errTaskFields); err != nil {
		return Task{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Task{}, errors.Wrap(err, "generating task id")
	}
	task := Task{
		ID:         id.String(),
		Title:      nt.Title,
		AssignedBy: sess.Username,
		AssignedTo: nt.AssignedTo,
		Status:     StatusPending,
		Timestamp:  core.FormatTimestamp(nowFunc()),
	}
	_, err = svc.mutate(ctx, projectID, func(p *Project) error {
		if !p.HasStudent(nt.AssignedTo) {
			return notInGroupError(nt.AssignedTo)
		}
		p.Tasks = append(p.Tasks, task)
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

// SubmitTask embeds the file into a pending task and marks it submitted.
// Only the assignee or a teacher may submit; a task is submitted at most once.
func (svc *Service) SubmitTask(ctx context.Context, projectID int64, taskID string, sess session.Session, f *payload.File) (Task, error) {
	prj, err := svc.Get(ctx, projectID)
	if err != nil {
		return Task{}, err
	}
	idx := prj.TaskIndex(taskID)
	if idx < 0 {
		return Task{}, ErrTaskNotFound
	}
	if task := prj.Tasks[idx]; sess.Username != task.AssignedTo && !sess.IsTeacher() {
		return Task{}, core.NewPermissionError(errNotAssignee)
	} else if task.IsSubmitted() {
		return Task{}, ErrTaskSubmitted
	}

	pl, err := payload.Encode(ctx, f, svc.conf.MaxUploadSize)
	if err != nil {
		return Task{}, err
	}

	var task Task
	prj, err = svc.mutate(ctx, projectID, func(p *Project) error {
		i := p.TaskIndex(taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		// the task may have been reassigned while the file was read
		if sess.Username != p.Tasks[i].AssignedTo && !sess.IsTeacher() {
			return core.NewPermissionError(errNotAssignee)
		}
		if p.Tasks[i].IsSubmitted() {
			return ErrTaskSubmitted
		}
		t := &p.Tasks[i]
		t.Status = StatusSubmitted
		t.SubmittedBy = null.StringFrom(sess.Username)
		t.FileName = null.StringFrom(pl.Name)
		t.FileData = null.StringFrom(pl.Data)
		t.SubmitTimestamp = null.StringFrom(core.FormatTimestamp(nowFunc()))
		task = *t
		return nil
	})
	if err != nil {
		return Task{}, err
	}

	svc.notify(
		fmt.Sprintf("Task submitted: %s", task.Title),
		fmt.Sprintf("%s submitted %q for task %q of project %q at %s.",
			sess.Username, task.FileName.String, task.Title, prj.Title, task.SubmitTimestamp.String),
	)
	return task, nil
}

// UpdateTask changes the title and assignee of a pending task.
func (svc *Service) UpdateTask(ctx context.Context, projectID int64, taskID string, upd UpdateTask) (Task, error) {
	upd.Title = core.CleanString(upd.Title)
	upd.AssignedTo = core.CleanString(upd.AssignedTo)
	if err := core.ValidateStruct(svc.validate, svc.translator, upd, errTaskFields); err != nil {
		return Task{}, err
	}

	var task Task
	_, err := svc.mutate(ctx, projectID, func(p *Project) error {
		i := p.TaskIndex(taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		if p.Tasks[i].IsSubmitted() {
			return ErrTaskSubmitted
		}
		if !p.HasStudent(upd.AssignedTo) {
			return notInGroupError(upd.AssignedTo)
		}
		p.Tasks[i].Title = upd.Title
		p.Tasks[i].AssignedTo = upd.AssignedTo
		task = p.Tasks[i]
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task in any state once `confirm` accepts.
func (svc *Service) DeleteTask(ctx context.Context, projectID int64, taskID string, confirm core.ConfirmFunc) error {
	prj, err := svc.Get(ctx, projectID)
	if err != nil {
		return err
	}
	idx := prj.TaskIndex(taskID)
	if idx < 0 {
		return ErrTaskNotFound
	}
	if !core.Confirmed(confirm, fmt.Sprintf("Delete task %q?", prj.Tasks[idx].Title)) {
		return core.ErrAborted
	}

	_, err = svc.mutate(ctx, projectID, func(p *Project) error {
		i := p.TaskIndex(taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
		return nil
	})
	return err
}

// mutate applies fn to the project with `id` and persists the whole collection.
// Nothing is saved when fn fails.
func (svc *Service) mutate(ctx context.Context, id int64, fn func(p *Project) error) (Project, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	projects, err := svc.load(ctx)
	if err != nil {
		return Project{}, err
	}
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		if err = fn(&projects[i]); err != nil {
			return Project{}, err
		}
		projects[i].normalize()
		if err = svc.save(ctx, projects); err != nil {
			return Project{}, err
		}
		return projects[i], nil
	}
	return Project{}, ErrNotFound
}

func (svc *Service) load(ctx context.Context) ([]Project, error) {
	projects, err := svc.repo.LoadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading projects")
	}
	for i := range projects {
		projects[i].normalize()
	}
	return projects, nil
}

func (svc *Service) save(ctx context.Context, projects []Project) error {
	return errors.Wrap(svc.repo.SaveAll(ctx, projects), "saving projects")
}

// nextID returns a millisecond timestamp, bumped to stay unique and increasing.
func (svc *Service) nextID(projects []Project) int64 {
	id := nowFunc().UnixMilli()
	if id <= svc.lastID {
		id = svc.lastID + 1
	}
	for _, p := range projects {
		if id <= p.ID {
			id = p.ID + 1
		}
	}
	svc.lastID = id
	return id
}

func (svc *Service) group(id string) (Group, error) {
	grp, ok := svc.dir.GroupByID(id)
	if !ok {
		return Group{}, core.NewValidationError(
			ErrGroupNotFound,
			core.FieldError{Field: "groupId", Error: groupText},
		)
	}
	if grp.Students == nil {
		grp.Students = []string{}
	}
	return grp, nil
}

func (svc *Service) notify(subject, body string) {
	if svc.conf.NotifyEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      core.Recipients(svc.conf.NotifyEmail),
		Subject: subject,
		Body:    body,
	})
}

func cleanProjectInput(up UpdateProject) UpdateProject {
	up.Title = core.CleanString(up.Title)
	up.Subject = core.CleanString(up.Subject)
	up.Deadline = core.CleanString(up.Deadline)
	up.GroupID = core.CleanString(up.GroupID)
	return up
}

func notInGroupError(student string) error {
	return core.NewValidationError(
		errors.New(errTaskFields),
		core.FieldError{Field: "assignedTo", Error: fmt.Sprintf("%s is not a member of the project group", student)},
	)
}
