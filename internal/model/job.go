package model

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

const (
	JobTypeRename = "rename"
	JobTypeInfo   = "info"
	JobTypeFix    = "fix"
)

// Job is one archive handed to a worker.
type Job struct {
	ID     int
	Path   string
	Type   string
	Status string
}

type JobList []Job

func (j JobList) Len() int {
	return len(j)
}

// NewJobList builds pending jobs of the given type, numbered from 1.
func NewJobList(jobType string, paths []string) JobList {
	jobs := make(JobList, 0, len(paths))
	for i, path := range paths {
		jobs = append(jobs, Job{
			ID:     i + 1,
			Path:   path,
			Type:   jobType,
			Status: JobStatusPending,
		})
	}
	return jobs
}
