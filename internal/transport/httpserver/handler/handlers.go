package handler

import (
	"net/http"

	accountdomain "giapha-go/internal/domain/account"
	albumdomain "giapha-go/internal/domain/album"
	funddomain "giapha-go/internal/domain/fund"
	memberdomain "giapha-go/internal/domain/member"
	memorialdomain "giapha-go/internal/domain/memorial"
	newsdomain "giapha-go/internal/domain/news"
	settingsdomain "giapha-go/internal/domain/settings"
	statsdomain "giapha-go/internal/domain/stats"
	treedomain "giapha-go/internal/domain/tree"
	"giapha-go/pkg/logger"
)

type Services struct {
	Members   *memberdomain.Service
	Tree      *treedomain.Service
	Accounts  *accountdomain.Service
	Memorials *memorialdomain.Service
	News      *newsdomain.Service
	Albums    *albumdomain.Service
	Fund      *funddomain.Service
	Settings  *settingsdomain.Service
	Stats     *statsdomain.Service
}

type Handlers struct {
	Members   *memberdomain.Service
	Tree      *treedomain.Service
	Accounts  *accountdomain.Service
	Memorials *memorialdomain.Service
	News      *newsdomain.Service
	Albums    *albumdomain.Service
	Fund      *funddomain.Service
	Settings  *settingsdomain.Service
	Stats     *statsdomain.Service
	log       logger.Logger
}

func New(services Services, log logger.Logger) *Handlers {
	return &Handlers{
		Members:   services.Members,
		Tree:      services.Tree,
		Accounts:  services.Accounts,
		Memorials: services.Memorials,
		News:      services.News,
		Albums:    services.Albums,
		Fund:      services.Fund,
		Settings:  services.Settings,
		Stats:     services.Stats,
		log:       log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
