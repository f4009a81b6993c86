package handlers

// categories.go handles teams ("categories") and their rosters.
//
// Coach assignment has an ownership rule the route guard cannot see: a COACH may
// only add or remove themselves. The handler loads the coach profile first and
// re-checks access with the profile's user id before anything is written.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/services"
)

// ListCategories handles GET /api/v1/categories.
func ListCategories(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := cats.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "categories": list})
	}
}

// CreateCategory handles POST /api/v1/categories.
func CreateCategory(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.CategoryInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		cat, err := cats.Create(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "category": cat})
	}
}

// GetCategory handles GET /api/v1/categories/:id and includes the rosters.
func GetCategory(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		cat, err := cats.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "category": cat})
	}
}

// UpdateCategory handles PUT /api/v1/categories/:id.
func UpdateCategory(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req services.CategoryInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		cat, err := cats.Update(c.UserContext(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "category": cat})
	}
}

// DeleteCategory handles DELETE /api/v1/categories/:id.
func DeleteCategory(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := cats.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

// AddCategoryPlayer handles POST /api/v1/categories/:id/players/:playerId.
func AddCategoryPlayer(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		playerID, err := pathID(c, "playerId")
		if err != nil {
			return err
		}
		cat, err := cats.AddPlayer(c.UserContext(), id, playerID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "category": cat})
	}
}

// RemoveCategoryPlayer handles DELETE /api/v1/categories/:id/players/:playerId.
func RemoveCategoryPlayer(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		playerID, err := pathID(c, "playerId")
		if err != nil {
			return err
		}
		if err := cats.RemovePlayer(c.UserContext(), id, playerID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

// loadAssignment resolves the team and coach in the path and checks that the
// caller may change this coach's assignments.
func loadAssignment(c *fiber.Ctx, cats *services.CategoryService) (*services.CoachAssignment, error) {
	a, err := actor(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	coachID, err := pathID(c, "coachId")
	if err != nil {
		return nil, err
	}
	assignment, err := cats.LoadCoachAssignment(c.UserContext(), id, coachID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(a, access.OpAssignCoach, access.Resource{SubjectUserID: assignment.Coach.UserID}); err != nil {
		return nil, err
	}
	return assignment, nil
}

// AssignCoach handles POST /api/v1/categories/:id/coaches/:coachId.
func AssignCoach(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignment, err := loadAssignment(c, cats)
		if err != nil {
			return err
		}
		cat, err := cats.AssignCoach(c.UserContext(), assignment)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "category": cat})
	}
}

// RemoveCoach handles DELETE /api/v1/categories/:id/coaches/:coachId.
func RemoveCoach(cats *services.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignment, err := loadAssignment(c, cats)
		if err != nil {
			return err
		}
		if err := cats.RemoveCoach(c.UserContext(), assignment); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
