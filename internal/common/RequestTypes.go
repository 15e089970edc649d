package common

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type GetUserRequest struct {
	UserID string `params:"userID" validate:"required"`
}

type UpdateUserRequest struct {
	UserID    string `params:"userID" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type UsernameRequest struct {
	Username string `params:"username" validate:"required"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

type GroupIDRequest struct {
	GroupID string `params:"groupID" validate:"required"`
}

type UpdateGroupRequest struct {
	GroupID string `params:"groupID" validate:"required"`
	Name    string `json:"name" validate:"required"`
}

type SendInvitationRequest struct {
	Group       string `json:"group" validate:"required"`
	InvitedUser string `json:"invitedUser" validate:"required"`
}

type RespondInvitationRequest struct {
	InvitationID string `params:"invitationID" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=accepted declined"`
}

type InvitationIDRequest struct {
	InvitationID string `params:"invitationID" validate:"required"`
}

type GetQueueRequest struct {
	MediaType string `params:"mediaType" validate:"required,validMediaType"`
	Username  string `query:"username"`
	Group     string `query:"group"`
}

type CreateQueueRequest struct {
	MediaType string   `params:"mediaType" validate:"required,validMediaType"`
	Users     []string `json:"users" validate:"required,min=1,dive,required"`
	Group     string   `json:"group"`
}

type MoveToHistoryRequest struct {
	MediaType string   `params:"mediaType" validate:"required,validMediaType"`
	QueueID   string   `params:"queueID" validate:"required"`
	MediaIDs  []string `json:"mediaIds" validate:"required,min=1,dive,required"`
}

type DeleteMediaRequest struct {
	MediaType string `params:"mediaType" validate:"required,validMediaType"`
	QueueID   string `params:"queueID" validate:"required"`
	MediaID   string `params:"mediaID" validate:"required"`
}

type PopularMediaRequest struct {
	MediaType string `params:"mediaType" validate:"required,validMediaType"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchMediaRequest struct {
	MediaType string `params:"mediaType" validate:"required,validMediaType"`
	Query     string `query:"q" validate:"required"`
}

type MediaByIDRequest struct {
	MediaType string `params:"mediaType" validate:"required,validMediaType"`
	MediaID   string `params:"mediaID" validate:"required"`
}
