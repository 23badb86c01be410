package main

import (
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"museum-backend/interfaces/http/rest/middleware"
)

// principalHeaders lists the headers only the entrypoint may set
var principalHeaders = []string{
	middleware.HeaderGatewayAuthorized,
	middleware.HeaderUserID,
	middleware.HeaderUserEmail,
	middleware.HeaderUserName,
}

// forwardAuthorizer strips client supplied principal headers and replaces them with
// the claims of the API Gateway JWT authorizer, when the route has one.
func forwardAuthorizer(req *events.APIGatewayV2HTTPRequest) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	for key := range req.Headers {
		for _, h := range principalHeaders {
			if strings.EqualFold(key, h) {
				delete(req.Headers, key)
			}
		}
	}

	authorizer := req.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return
	}
	claims := authorizer.JWT.Claims
	userID := claims["id"]
	if userID == "" {
		userID = claims["sub"]
	}
	if userID == "" {
		return
	}

	req.Headers[middleware.HeaderGatewayAuthorized] = "true"
	req.Headers[middleware.HeaderUserID] = userID
	req.Headers[middleware.HeaderUserEmail] = claims["email"]
	req.Headers[middleware.HeaderUserName] = claims["name"]
}
