// Copyright 2024 steamrec Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kgtkgtkg/steamrec/base/log"
	"github.com/kgtkgtkg/steamrec/config"
	"github.com/kgtkgtkg/steamrec/engine"
	"github.com/kgtkgtkg/steamrec/logics"
)

// RestServer implements the REST-ful API server.
type RestServer struct {
	Recommender *engine.Recommender
	Config      *config.Config
	WebService  *restful.WebService
}

// NewRestServer creates a REST server around a recommender.
func NewRestServer(cfg *config.Config, recommender *engine.Recommender) *RestServer {
	return &RestServer{
		Recommender: recommender,
		Config:      cfg,
		WebService:  new(restful.WebService),
	}
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	// register restful APIs
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: restful.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	restful.DefaultContainer.Add(restfulspec.NewOpenAPIService(specConfig))
	// register prometheus
	http.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%d", s.Config.HTTP.Host, s.Config.HTTP.Port)
	log.Logger().Info("start http server", zap.String("url", "http://"+addr))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(addr, nil)))
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	RestAPIRequestSeconds.Observe(time.Since(start).Seconds())
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()))
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	// Get recommendations
	ws.Route(ws.GET("/recommend/{steam-id}").To(s.recommend).
		Doc("Get top n recommended games for a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
		Param(ws.PathParameter("steam-id", "17-character SteamID of the user").DataType("string")).
		Param(ws.QueryParameter("n", "number of returned games").DataType("int")).
		Writes([]logics.Score{}))
	// Health check
	ws.Route(ws.GET("/health").To(s.health).
		Doc("Health check.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(Health{}))
}

// Health is the response of the health check.
type Health struct {
	Ready bool
}

func (s *RestServer) health(_ *restful.Request, response *restful.Response) {
	Ok(response, Health{Ready: true})
}

func (s *RestServer) recommend(request *restful.Request, response *restful.Response) {
	start := time.Now()
	steamId := request.PathParameter("steam-id")
	n := 0
	if rawN := request.QueryParameter("n"); rawN != "" {
		var err error
		if n, err = strconv.Atoi(rawN); err != nil {
			BadRequest(response, errors.BadRequestf("n must be an integer"))
			return
		}
	}
	scores, err := s.Recommender.Recommend(request.Request.Context(), steamId, n)
	if err != nil {
		switch {
		case errors.IsBadRequest(errors.Cause(err)):
			BadRequest(response, err)
		case errors.IsNotFound(errors.Cause(err)):
			PageNotFound(response, err)
		default:
			InternalServerError(response, err)
		}
		return
	}
	GetRecommendSeconds.Observe(time.Since(start).Seconds())
	// length may fall short of n when the peer catalog is small
	Ok(response, scores)
}

func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("page not found", zap.Error(err))
	if err = response.WriteError(http.StatusNotFound, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}
