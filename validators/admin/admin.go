package adminValidator

import (
	"futurebound/middleware"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type UserListQuery struct {
	middleware.Pagination
	Search string `query:"search" validate:"omitempty,max=100"`
	Role   string `query:"role" validate:"omitempty,oneof=USER ADMIN"`
	Active string `query:"active" validate:"omitempty,oneof=true false"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type MessageListQuery struct {
	middleware.Pagination
	Unread bool `query:"unread"`
}

func ListUsers() fiber.Handler {
	return shared.Query[UserListQuery]("validatedUserList")
}

func ChangeRole() fiber.Handler {
	return shared.Body[RoleRequest]("validatedRole")
}

func ListMessages() fiber.Handler {
	return shared.Query[MessageListQuery]("validatedMessageList")
}

// ID validates the :id route parameter.
func ID() fiber.Handler {
	return shared.IDParams("id")
}
