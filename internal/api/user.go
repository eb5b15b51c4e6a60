package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"ecommerce_api/internal/dto"        // Request and response shapes
	"ecommerce_api/internal/metrics"    // Prometheus counters
	"ecommerce_api/internal/repository" // Persistence
	"ecommerce_api/internal/service"    // Registration and login

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// GetUsersHandler lists every user with their role
func GetUsersHandler(repo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := repo.GetUsers(c.Request.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch users")
			respondError(c, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		c.JSON(http.StatusOK, dto.ToUserDtos(users))
	}
}

// GetUserHandler returns one user by id
func GetUserHandler(repo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid user id")
			return
		}
		user, err := repo.GetUser(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("user_id", id).Error("Failed to fetch user")
			respondError(c, http.StatusInternalServerError, "Failed to fetch user")
			return
		}
		c.JSON(http.StatusOK, dto.ToUserDto(*user))
	}
}

// RegisterHandler creates a user with the requested role, User when none is given
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateUserDto // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username,
			Password: req.Password,
			Name:     req.Name,
			Role:     req.Role,
		})
		metrics.RecordAuth("register", err == nil)
		switch {
		case errors.Is(err, service.ErrEmptyCredentials),
			errors.Is(err, service.ErrUsernameTaken),
			errors.Is(err, service.ErrPasswordTooLong):
			respondError(c, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			logrus.WithFields(logrus.Fields{
				"username": req.Username,
				"error":    err.Error(),
			}).Error("Failed to register user")
			respondError(c, http.StatusInternalServerError, "Error creating user")
			return
		}
		c.Header("Location", locationOf(c, user.ID))
		c.JSON(http.StatusCreated, dto.ToUserDataDto(*user))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UserLoginDto // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		result, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		metrics.RecordAuth("login", err == nil)
		switch {
		case errors.Is(err, service.ErrEmptyCredentials):
			respondError(c, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			logrus.WithField("username", req.Username).Warn("Failed login attempt")
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
			return
		case err != nil:
			logrus.WithError(err).Error("Login failed")
			respondError(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		user := dto.ToUserDataDto(*result.User)
		c.JSON(http.StatusOK, dto.UserLoginResponseDto{
			Token:   result.Token,
			User:    &user,
			Message: "User logged in successfully",
		})
	}
}
