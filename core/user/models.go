package user

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/collection"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

var AllRoles = []string{RoleStudent, RoleAdmin}

// Filters accepted by admin/users/.
const (
	FilterIsActive        = "is_active"
	FilterRole            = "role"
	FilterLearningGoal    = "learning_goal"
	FilterDifficultyLevel = "difficulty_level"
)

var Filters = []string{FilterIsActive, FilterRole, FilterLearningGoal, FilterDifficultyLevel}

type User struct {
	ID              int64       `json:"id"`
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Role            null.String `json:"role"`
	IsActive        bool        `json:"is_active"`
	IsStaff         bool        `json:"is_staff"`
	LearningGoal    null.String `json:"learning_goal"`
	DifficultyLevel null.String `json:"difficulty_level"`
	DateJoined      time.Time   `json:"date_joined"`
	LastLogin       null.Time   `json:"last_login"`
}

var _ collection.Toggler[User] = User{}

func (u User) ItemID() int64 { return u.ID }

// WithField returns a copy of u with field replaced. Only toggleable fields are supported.
func (u User) WithField(field string, value interface{}) (User, error) {
	b, ok := value.(bool)
	if !ok {
		return u, collection.ErrUnknownField
	}
	switch field {
	case "is_active":
		u.IsActive = b
	case "is_staff":
		u.IsStaff = b
	default:
		return u, collection.ErrUnknownField
	}
	return u, nil
}

// RoleName defaults to student, like the platform does for users without an explicit role.
func (u User) RoleName() string {
	if u.Role.Valid && u.Role.String != "" {
		return u.Role.String
	}
	return RoleStudent
}

func (u User) IsAdmin() bool {
	return u.RoleName() == RoleAdmin || u.IsStaff
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// LoginRequest is what accounts/login/ expects.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username)
	return validateStruct(lr)
}

// LoginResponse is what accounts/login/ answers.
type LoginResponse struct {
	Token           string      `json:"token"`
	Username        string      `json:"username"`
	LearningGoal    null.String `json:"learning_goal"`
	DifficultyLevel null.String `json:"difficulty_level"`
}

// RegisterResponse is what accounts/register/ answers.
type RegisterResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Registration contains the information needed to sign up.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" validate:"required,min=3,alphanum_"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

func (r *Registration) Validate() error {
	r.FirstName = core.CleanString(r.FirstName)
	r.LastName = core.CleanString(r.LastName)
	r.Username = core.CleanString(r.Username)
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validateStruct(r)
}

// NewUser contains the information an admin provides to create a User.
type NewUser struct {
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role" validate:"omitempty,role"`
	IsActive        bool   `json:"is_active"`
	LearningGoal    string `json:"learning_goal,omitempty" validate:"omitempty,goal"`
	DifficultyLevel string `json:"difficulty_level,omitempty" validate:"omitempty,difficulty"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate() error {
	nu.Username = core.CleanString(nu.Username)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
	return validateStruct(nu)
}

// UpdateUser defines what an admin may modify on an existing User. Empty fields keep the original values.
type UpdateUser struct {
	Username        string `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role" validate:"omitempty,role"`
	IsActive        *bool  `json:"is_active,omitempty"`
	LearningGoal    string `json:"learning_goal,omitempty" validate:"omitempty,goal"`
	DifficultyLevel string `json:"difficulty_level,omitempty" validate:"omitempty,difficulty"`
	Password        string `json:"password,omitempty"`
	PasswordConfirm string `json:"confirm_password,omitempty" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(orig User) error {
	if uname := core.CleanString(uu.Username); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = orig.Username
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = orig.Email
	}
	if first := core.CleanString(uu.FirstName); first != "" {
		uu.FirstName = first
	} else {
		uu.FirstName = orig.FirstName
	}
	if last := core.CleanString(uu.LastName); last != "" {
		uu.LastName = last
	} else {
		uu.LastName = orig.LastName
	}
	if uu.Role == "" {
		uu.Role = orig.RoleName()
	}
	if uu.IsActive == nil {
		active := orig.IsActive
		uu.IsActive = &active
	}
	return validateStruct(uu)
}

// Profile is the signed-in user's own view of themselves (accounts/profile/).
type Profile struct {
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	LearningGoal    null.String `json:"learning_goal"`
	DifficultyLevel null.String `json:"difficulty_level"`
	Role            null.String `json:"role,omitempty"`
	IsStaff         bool        `json:"is_staff,omitempty"`
}

func (p Profile) IsAdmin() bool {
	return p.IsStaff || (p.Role.Valid && p.Role.String == RoleAdmin)
}

// LearningPath is the pathway & difficulty a learner picks; it decides which lessons they get.
type LearningPath struct {
	LearningGoal    string `json:"learning_goal" validate:"required,goal"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,difficulty"`
}

// Validate fills empty choices from the current profile. A learner without a goal starts with the first one.
func (lp *LearningPath) Validate(current Profile) error {
	lp.LearningGoal = core.CleanString(lp.LearningGoal)
	lp.DifficultyLevel = core.CleanString(lp.DifficultyLevel)
	if lp.LearningGoal == "" {
		lp.LearningGoal = current.LearningGoal.String
	}
	if lp.LearningGoal == "" {
		lp.LearningGoal = core.LearningGoals[0]
	}
	if lp.DifficultyLevel == "" {
		lp.DifficultyLevel = current.DifficultyLevel.String
	}
	return validateStruct(lp)
}
