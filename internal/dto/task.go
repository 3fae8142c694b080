package dto

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest replaces both fields; an omitted description clears it.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DropRequest carries the dragged task id; the target column comes from the path.
type DropRequest struct {
	ID string `json:"id" binding:"required"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Column      string `json:"column"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

type ColumnResponse struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Count int            `json:"count"`
	Tasks []TaskResponse `json:"tasks"`
}

type BoardResponse struct {
	Columns []ColumnResponse `json:"columns"`
}
