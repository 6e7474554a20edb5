package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roach88/rxtrace/internal/model"
)

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, invalidRequest("invalid id")
	}
	return id, nil
}

func bindJSON(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return invalidRequest("invalid request body")
	}
	return nil
}

func (s *Server) stats(c echo.Context) error {
	stats, err := s.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Users

func (s *Server) createUser(c echo.Context) error {
	var p model.UserPayload
	if err := bindJSON(c, &p); err != nil {
		return err
	}
	user, err := s.svc.CreateUser(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUserRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body struct {
		Role model.Role `json:"role"`
	}
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	user, err := s.svc.UpdateUserRole(c.Request().Context(), id, body.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := s.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) usersByRole(c echo.Context) error {
	users, err := s.svc.UsersByRole(c.Request().Context(), model.Role(c.QueryParam("role")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Pharmaceuticals

func (s *Server) createPharmaceutical(c echo.Context) error {
	var p model.PharmaceuticalPayload
	if err := bindJSON(c, &p); err != nil {
		return err
	}
	pharma, err := s.svc.CreatePharmaceutical(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pharma)
}

func (s *Server) deletePharmaceutical(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.DeletePharmaceutical(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getPharmaceutical(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	pharma, err := s.svc.GetPharmaceutical(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pharma)
}

func (s *Server) listPharmaceuticals(c echo.Context) error {
	pharmas, err := s.svc.ListPharmaceuticals(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pharmas)
}

func (s *Server) pharmaceuticalHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	events, err := s.svc.PharmaceuticalHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Supply-chain events

func (s *Server) createEvent(c echo.Context) error {
	var p model.EventPayload
	if err := bindJSON(c, &p); err != nil {
		return err
	}
	event, err := s.svc.CreateEvent(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

func (s *Server) deleteEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteEvent(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	event, err := s.svc.GetEvent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

func (s *Server) listEvents(c echo.Context) error {
	events, err := s.svc.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Rewards

func (s *Server) createReward(c echo.Context) error {
	var p model.RewardPayload
	if err := bindJSON(c, &p); err != nil {
		return err
	}
	reward, err := s.svc.CreateReward(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reward)
}

func (s *Server) deleteReward(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteReward(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getReward(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	reward, err := s.svc.GetReward(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reward)
}

func (s *Server) listRewards(c echo.Context) error {
	rewards, err := s.svc.ListRewards(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rewards)
}
