package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
)

// Account roles carried in the JWT.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
	RoleAdmin   = "Admin"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func newClaims(conf core.Config, id, name, email, role string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   id,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  name,
		Email: email,
		Role:  role,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

type authApi struct {
	conf       core.Config
	studentSvc *student.Service
	teacherSvc *teacher.Service
	adminSvc   *admin.Service
	validate   *validator.Validate
}

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{
		conf:       deps.Conf,
		studentSvc: deps.StudentSvc,
		teacherSvc: deps.TeacherSvc,
		adminSvc:   deps.AdminSvc,
		validate:   deps.Validate,
	}
	g.POST("/auth/login", api.login)
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  string      `json:"role"`
	User  interface{} `json:"user"`
}

// login authenticates a student, teacher or admin depending on the account
// type in the request.
func (api *authApi) login(ctx echo.Context) error {
	var data student.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if data.Type == "" {
		data.Type = RoleStudent
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var (
		claims *Claims
		user   interface{}
	)
	switch data.Type {
	case RoleStudent:
		s, err := api.studentSvc.Authenticate(data.Email, data.Password)
		if err != nil {
			return mapDomainErr(err)
		}
		if !s.IsActive {
			return errAccountDeactivated
		}
		claims = newClaims(api.conf, s.ID, s.Name(), s.Email, RoleStudent)
		user = s

	case RoleTeacher:
		t, err := api.teacherSvc.Authenticate(data.Email, data.Password)
		if err != nil {
			return mapDomainErr(err)
		}
		if !t.IsActive {
			return errAccountDeactivated
		}
		if t.ApprovalStatus != teacher.ApprovalApproved {
			return ctx.JSON(http.StatusForbidden, echo.Map{
				"message":       "your application has not been approved yet",
				"needsApproval": true,
			})
		}
		claims = newClaims(api.conf, t.ID, t.Name(), t.Email, RoleTeacher)
		user = t

	case RoleAdmin:
		a, err := api.adminSvc.Authenticate(data.Email, data.Password)
		if err != nil {
			return mapDomainErr(err)
		}
		claims = newClaims(api.conf, a.ID, a.Name(), a.Email, RoleAdmin)
		user = a

	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown account type")
	}

	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, Role: data.Type, User: user})
}
