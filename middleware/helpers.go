package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sportleague/league-system/models"
)

const (
	jwtClaimMemberID = "member_id"
	jwtClaimRole     = "role"
)

func GetMemberIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context or invalid type")
	}

	memberIDClaim, ok := claims[jwtClaimMemberID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimMemberID)
	}

	// encoding/json декодирует числа в float64; строка допускается на
	// случай токенов, выписанных сторонними системами директории.
	memberIDFloat, ok := memberIDClaim.(float64)
	if !ok {
		memberIDStr, okStr := memberIDClaim.(string)
		if okStr {
			memberIDInt, err := strconv.Atoi(memberIDStr)
			if err == nil && memberIDInt > 0 {
				return memberIDInt, nil
			}
		}
		return 0, fmt.Errorf("invalid type for '%s' claim: expected float64 or string, got %T", jwtClaimMemberID, memberIDClaim)
	}

	if memberIDFloat != float64(int(memberIDFloat)) {
		return 0, fmt.Errorf("'%s' claim is not an integer: %f", jwtClaimMemberID, memberIDFloat)
	}

	memberID := int(memberIDFloat)
	if memberID <= 0 {
		return 0, fmt.Errorf("invalid member ID value in '%s' claim: %d", jwtClaimMemberID, memberID)
	}

	return memberID, nil
}

func GetRoleFromContext(ctx context.Context) (models.Role, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}

	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}

	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}

	role := models.Role(roleStr)

	switch role {
	case models.RoleAdmin, models.RoleCoach, models.RolePlayer, models.RoleOrganizer,
		models.RoleReferee, models.RoleEqManager, models.RoleUser:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
