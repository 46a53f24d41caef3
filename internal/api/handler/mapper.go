package handler

import "github.com/99minutos/microtasks/internal/core/domain"

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Reward:      t.Reward.InexactFloat64(),
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toSubmissionResponse(s domain.Submission) submissionResponse {
	return submissionResponse{
		ID:         s.ID,
		TaskID:     s.TaskID,
		UserID:     s.UserID,
		Evidence:   s.Evidence,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		ReviewedAt: s.ReviewedAt,
		TaskTitle:  s.TaskTitle,
		UserName:   s.UserName,
	}
}

func toSubmissionResponses(subs []domain.Submission) []submissionResponse {
	out := make([]submissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubmissionResponse(s))
	}
	return out
}
