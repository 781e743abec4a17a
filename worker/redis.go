package worker

import (
	"fmt"

	"text2phenotype.com/nsd/tasks"
)

type redisTransactions interface {
	getDocTask(redisKey string) (*tasks.DocumentTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.NSD.Status = tasks.TaskStatusStarted
		docTask.TaskStatuses.NSD.Attempts += 1
		docTask.TaskStatuses.NSD.StartedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.NSD.Status = tasks.TaskStatusCanceled
		docTask.TaskStatuses.NSD.StartedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.Attempts += 1
		docTask.TaskStatuses.NSD.ErrorMessages = append(
			docTask.TaskStatuses.NSD.ErrorMessages,
			errorMessages...,
		)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.NSD.Status = tasks.TaskStatusCompletedFailure
		docTask.TaskStatuses.NSD.StartedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.Attempts += 1
		docTask.TaskStatuses.NSD.ErrorMessages = append(
			docTask.TaskStatuses.NSD.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				docTask.TaskStatuses.NSD.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.NSD.Status = tasks.TaskStatusFailed
		docTask.TaskStatuses.NSD.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.ErrorMessages = append(docTask.TaskStatuses.NSD.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		if !docTask.TaskStatuses.NSD.Status.Complete() {
			docTask.TaskStatuses.NSD.Status = tasks.TaskStatusCompletedSuccess
		}
		docTask.TaskStatuses.NSD.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.NSD.ResultsFileKey = getResultsFileKey(task)
	})
}

func (wrapper *redisClientWrapper) getDocTask(redisKey string) (*tasks.DocumentTask, error) {
	return wrapper.tasksClient.Documents.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.docTask.JobID)
}
