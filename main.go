package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"study-hand/config"
	"study-hand/db"
	"study-hand/models"
	"study-hand/providers"
	"study-hand/providers/crossref"
	"study-hand/providers/ctgov"
	"study-hand/providers/pubmed"
	"study-hand/registry"
	"study-hand/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var newRecordsCounter prometheus.Counter

func init() {
	newRecordsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "new_records_registered_total",
			Help: "Total number of new records registered via the API.",
		},
	)
	prometheus.MustRegister(newRecordsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// provenanceFromRequest liest den expliziten Erstellungskontext aus den
// Headern X-USER-ID und X-RUN-ID. Beide sind optional.
func provenanceFromRequest(c *gin.Context) registry.Provenance {
	var prov registry.Provenance
	if v := c.GetHeader("X-USER-ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			uid := uint(id)
			prov.UserID = &uid
		}
	}
	if v := c.GetHeader("X-RUN-ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			rid := uint(id)
			prov.RunID = &rid
		}
	}
	return prov
}

// writeError bildet die Registry-Fehler auf HTTP-Statuscodes ab.
func writeError(c *gin.Context, logging *zap.Logger, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, registry.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenced record does not exist"})
	case errors.Is(err, registry.ErrUniqueConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrProtected):
		c.JSON(http.StatusConflict, gin.H{"error": "record is referenced and cannot be deleted"})
	default:
		logging.Error("Unexpected registry error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	}
}

// linkRequest ist der Body für Artifact-Verknüpfungen.
type linkRequest struct {
	ArtifactUID      string `json:"artifact_uid" binding:"required"`
	FeatureID        *uint  `json:"feature_id"`
	LabelRefIsName   *bool  `json:"label_ref_is_name"`
	FeatureRefIsName *bool  `json:"feature_ref_is_name"`
}

func (r linkRequest) options() registry.LinkOptions {
	return registry.LinkOptions{
		FeatureID:        r.FeatureID,
		LabelRefIsName:   r.LabelRefIsName,
		FeatureRefIsName: r.FeatureRefIsName,
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	gdb, err := db.Open(cfg.DSN(), logging)
	if err != nil {
		logging.Fatal("Failed to connect to registry database", zap.Error(err))
	}

	// Migrationen in Abhängigkeits-Reihenfolge anwenden
	if err := db.RunMigrations(gdb, logging); err != nil {
		logging.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Setup Registries
	core := registry.NewCoreRegistry(gdb, logging)
	references := registry.NewReferenceRegistry(gdb, logging)
	trials := registry.NewClinicalTrialRegistry(gdb, logging)
	biosamples := registry.NewBiosampleRegistry(gdb, logging)
	patients := registry.NewPatientRegistry(gdb, logging)
	medications := registry.NewMedicationRegistry(gdb, logging)
	treatments := registry.NewTreatmentRegistry(gdb, logging)

	// Setup Providers und Services
	enabledProviders := []providers.Provider{
		pubmed.NewFetcher(cfg, logging),
		crossref.NewFetcher(cfg, logging),
	}
	ctgovFetcher := ctgov.NewFetcher(cfg, logging)
	enricher := services.NewEnrichService(cfg, references, trials, logging, enabledProviders, ctgovFetcher)
	auditor := services.NewAuditService(gdb, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupCoreRoutes(router, core, logging)
	setupReferenceRoutes(router, references, core, logging)
	setupClinicalTrialRoutes(router, trials, core, logging)
	setupBiosampleRoutes(router, biosamples, core, logging)
	setupPatientRoutes(router, patients, core, logging)
	setupMedicationRoutes(router, medications, core, logging)
	setupTreatmentRoutes(router, treatments, core, logging)
	setupEnrichRoutes(router, enricher, logging)
	setupAuditRoutes(router, auditor, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.AuditCronSchedule, func() {
		logging.Info("Running scheduled link audit...")
		if _, err := auditor.Run(context.Background()); err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupCoreRoutes(router *gin.Engine, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/artifacts")

	rg.POST("/", func(c *gin.Context) {
		var art models.Artifact
		if err := c.ShouldBindJSON(&art); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := core.CreateArtifact(c.Request.Context(), provenanceFromRequest(c), &art); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, art)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		art, err := core.GetArtifactByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, art)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := core.DeleteArtifact(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "artifact deleted"})
	})

	router.POST("/features", func(c *gin.Context) {
		var feature models.Feature
		if err := c.ShouldBindJSON(&feature); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := core.CreateFeature(c.Request.Context(), &feature); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, feature)
	})

	router.POST("/collections", func(c *gin.Context) {
		var coll models.Collection
		if err := c.ShouldBindJSON(&coll); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := core.CreateCollection(c.Request.Context(), &coll); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, coll)
	})

	router.POST("/users", func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := core.CreateUser(c.Request.Context(), &user); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	})

	router.POST("/runs", func(c *gin.Context) {
		var req struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'name' required"})
			return
		}
		run, err := core.StartRun(c.Request.Context(), req.Name)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, run)
	})
}

func setupReferenceRoutes(router *gin.Engine, refs *registry.ReferenceRegistry, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/references")

	rg.POST("/", func(c *gin.Context) {
		var ref models.Reference
		if err := c.ShouldBindJSON(&ref); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := refs.Create(c.Request.Context(), provenanceFromRequest(c), &ref); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, ref)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		ref, err := refs.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, ref)
	})

	// Nur die fachlichen Felder sind mutierbar; id, uid und Provenienz
	// bleiben außen vor.
	rg.PUT("/:uid", func(c *gin.Context) {
		var req struct {
			Name        *string    `json:"name"`
			Abbr        *string    `json:"abbr"`
			URL         *string    `json:"url"`
			PubmedID    *int64     `json:"pubmed_id"`
			DOI         *string    `json:"doi"`
			Text        *string    `json:"text"`
			Abstract    *string    `json:"abstract"`
			FullText    *string    `json:"full_text"`
			PublishedAt *time.Time `json:"published_at"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		ref, err := refs.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		if req.Name != nil {
			ref.Name = *req.Name
		}
		if req.Abbr != nil {
			ref.Abbr = req.Abbr
		}
		if req.URL != nil {
			ref.URL = *req.URL
		}
		if req.PubmedID != nil {
			ref.PubmedID = req.PubmedID
		}
		if req.DOI != nil {
			ref.DOI = *req.DOI
		}
		if req.Text != nil {
			ref.Text = *req.Text
		}
		if req.Abstract != nil {
			ref.Abstract = *req.Abstract
		}
		if req.FullText != nil {
			ref.FullText = *req.FullText
		}
		if req.PublishedAt != nil {
			ref.PublishedAt = req.PublishedAt
		}
		if err := refs.Save(c.Request.Context(), ref); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, ref)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := refs.Delete(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "reference deleted"})
	})

	rg.POST("/:uid/links", func(c *gin.Context) {
		var req linkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'artifact_uid' required"})
			return
		}
		ref, err := refs.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		art, err := core.GetArtifactByUID(c.Request.Context(), req.ArtifactUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		link, err := refs.LinkArtifact(c.Request.Context(), provenanceFromRequest(c), ref, art, req.options())
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.GET("/:uid/links", func(c *gin.Context) {
		ref, err := refs.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		links, err := refs.Links(c.Request.Context(), ref)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupClinicalTrialRoutes(router *gin.Engine, trials *registry.ClinicalTrialRegistry, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/clinical-trials")

	rg.POST("/", func(c *gin.Context) {
		var trial models.ClinicalTrial
		if err := c.ShouldBindJSON(&trial); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := trials.Create(c.Request.Context(), provenanceFromRequest(c), &trial); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, trial)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		trial, err := trials.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, trial)
	})

	rg.PUT("/:uid", func(c *gin.Context) {
		var req struct {
			Name        *string `json:"name"`
			Title       *string `json:"title"`
			Objective   *string `json:"objective"`
			Description *string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		trial, err := trials.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		if req.Name != nil {
			trial.Name = *req.Name
		}
		if req.Title != nil {
			trial.Title = *req.Title
		}
		if req.Objective != nil {
			trial.Objective = *req.Objective
		}
		if req.Description != nil {
			trial.Description = *req.Description
		}
		if err := trials.Save(c.Request.Context(), trial); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, trial)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := trials.Delete(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "clinical trial deleted"})
	})

	rg.POST("/:uid/collections", func(c *gin.Context) {
		var req struct {
			CollectionUID string `json:"collection_uid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'collection_uid' required"})
			return
		}
		trial, err := trials.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		coll, err := core.GetCollectionByUID(c.Request.Context(), req.CollectionUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		if err := trials.AddCollection(c.Request.Context(), trial, coll); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "collection linked"})
	})

	rg.POST("/:uid/links", func(c *gin.Context) {
		var req linkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'artifact_uid' required"})
			return
		}
		trial, err := trials.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		art, err := core.GetArtifactByUID(c.Request.Context(), req.ArtifactUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		link, err := trials.LinkArtifact(c.Request.Context(), provenanceFromRequest(c), trial, art, req.options())
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.GET("/:uid/links", func(c *gin.Context) {
		trial, err := trials.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		links, err := trials.Links(c.Request.Context(), trial)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupBiosampleRoutes(router *gin.Engine, biosamples *registry.BiosampleRegistry, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/biosamples")

	rg.POST("/", func(c *gin.Context) {
		var sample models.Biosample
		if err := c.ShouldBindJSON(&sample); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := biosamples.Create(c.Request.Context(), provenanceFromRequest(c), &sample); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, sample)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		sample, err := biosamples.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, sample)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := biosamples.Delete(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "biosample deleted"})
	})

	rg.POST("/:uid/links", func(c *gin.Context) {
		var req linkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'artifact_uid' required"})
			return
		}
		sample, err := biosamples.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		art, err := core.GetArtifactByUID(c.Request.Context(), req.ArtifactUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		link, err := biosamples.LinkArtifact(c.Request.Context(), provenanceFromRequest(c), sample, art, req.options())
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.GET("/:uid/links", func(c *gin.Context) {
		sample, err := biosamples.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		links, err := biosamples.Links(c.Request.Context(), sample)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupPatientRoutes(router *gin.Engine, patients *registry.PatientRegistry, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/patients")

	rg.POST("/", func(c *gin.Context) {
		var patient models.Patient
		if err := c.ShouldBindJSON(&patient); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := patients.Create(c.Request.Context(), provenanceFromRequest(c), &patient); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, patient)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		patient, err := patients.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, patient)
	})

	rg.PUT("/:uid", func(c *gin.Context) {
		var req struct {
			Name         *string    `json:"name"`
			Age          *int       `json:"age"`
			Gender       *string    `json:"gender"`
			EthnicityID  *uint      `json:"ethnicity_id"`
			BirthDate    *time.Time `json:"birth_date"`
			Deceased     *bool      `json:"deceased"`
			DeceasedDate *time.Time `json:"deceased_date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		patient, err := patients.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		if req.Name != nil {
			patient.Name = *req.Name
		}
		if req.Age != nil {
			patient.Age = req.Age
		}
		if req.Gender != nil {
			patient.Gender = *req.Gender
		}
		if req.EthnicityID != nil {
			patient.EthnicityID = req.EthnicityID
		}
		if req.BirthDate != nil {
			patient.BirthDate = req.BirthDate
		}
		if req.Deceased != nil {
			patient.Deceased = req.Deceased
		}
		if req.DeceasedDate != nil {
			patient.DeceasedDate = req.DeceasedDate
		}
		if err := patients.Save(c.Request.Context(), patient); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, patient)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := patients.Delete(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "patient deleted"})
	})

	rg.POST("/:uid/links", func(c *gin.Context) {
		var req linkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'artifact_uid' required"})
			return
		}
		patient, err := patients.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		art, err := core.GetArtifactByUID(c.Request.Context(), req.ArtifactUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		link, err := patients.LinkArtifact(c.Request.Context(), provenanceFromRequest(c), patient, art, req.options())
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.GET("/:uid/links", func(c *gin.Context) {
		patient, err := patients.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		links, err := patients.Links(c.Request.Context(), patient)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupMedicationRoutes(router *gin.Engine, medications *registry.MedicationRegistry, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/medications")

	rg.POST("/", func(c *gin.Context) {
		var med models.Medication
		if err := c.ShouldBindJSON(&med); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := medications.Create(c.Request.Context(), provenanceFromRequest(c), &med); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, med)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		med, err := medications.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, med)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := medications.Delete(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "medication deleted"})
	})

	// Hierarchie: Parent-Beziehung anlegen und abfragen
	rg.POST("/:uid/parents", func(c *gin.Context) {
		var req struct {
			ParentUID string `json:"parent_uid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'parent_uid' required"})
			return
		}
		med, err := medications.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		parent, err := medications.GetByUID(c.Request.Context(), req.ParentUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		if err := medications.AddParent(c.Request.Context(), med, parent); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "parent linked"})
	})

	rg.GET("/:uid/parents", func(c *gin.Context) {
		med, err := medications.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		parents, err := medications.Parents(c.Request.Context(), med)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, parents)
	})

	rg.GET("/:uid/children", func(c *gin.Context) {
		med, err := medications.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		children, err := medications.Children(c.Request.Context(), med)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, children)
	})

	rg.POST("/:uid/links", func(c *gin.Context) {
		var req linkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'artifact_uid' required"})
			return
		}
		med, err := medications.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		art, err := core.GetArtifactByUID(c.Request.Context(), req.ArtifactUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		link, err := medications.LinkArtifact(c.Request.Context(), provenanceFromRequest(c), med, art, req.options())
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.GET("/:uid/links", func(c *gin.Context) {
		med, err := medications.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		links, err := medications.Links(c.Request.Context(), med)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupTreatmentRoutes(router *gin.Engine, treatments *registry.TreatmentRegistry, core *registry.CoreRegistry, logging *zap.Logger) {
	rg := router.Group("/treatments")

	rg.POST("/", func(c *gin.Context) {
		var treatment models.Treatment
		if err := c.ShouldBindJSON(&treatment); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := treatments.Create(c.Request.Context(), provenanceFromRequest(c), &treatment); err != nil {
			writeError(c, logging, err)
			return
		}
		newRecordsCounter.Inc()
		c.JSON(http.StatusCreated, treatment)
	})

	rg.GET("/:uid", func(c *gin.Context) {
		treatment, err := treatments.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, treatment)
	})

	rg.DELETE("/:uid", func(c *gin.Context) {
		if err := treatments.Delete(c.Request.Context(), c.Param("uid")); err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "treatment deleted"})
	})

	rg.POST("/:uid/links", func(c *gin.Context) {
		var req linkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'artifact_uid' required"})
			return
		}
		treatment, err := treatments.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		art, err := core.GetArtifactByUID(c.Request.Context(), req.ArtifactUID)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		link, err := treatments.LinkArtifact(c.Request.Context(), provenanceFromRequest(c), treatment, art, req.options())
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	})

	rg.GET("/:uid/links", func(c *gin.Context) {
		treatment, err := treatments.GetByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			writeError(c, logging, err)
			return
		}
		links, err := treatments.Links(c.Request.Context(), treatment)
		if err != nil {
			writeError(c, logging, err)
			return
		}
		c.JSON(http.StatusOK, links)
	})
}

func setupEnrichRoutes(router *gin.Engine, enricher *services.EnrichService, logging *zap.Logger) {
	rg := router.Group("/enrich")

	// POST - Referenz über PMID oder DOI anreichern
	rg.POST("/reference", func(c *gin.Context) {
		var req struct {
			Source string `json:"source" binding:"required"`
			ID     string `json:"id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'source' and 'id' required"})
			return
		}
		ref, err := enricher.EnrichReference(c.Request.Context(), provenanceFromRequest(c), req.Source, req.ID)
		if err != nil {
			logging.Error("Reference enrichment failed", zap.String("source", req.Source), zap.String("id", req.ID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment failed"})
			return
		}
		c.JSON(http.StatusOK, ref)
	})

	// POST - Klinische Studie über NCT-ID anreichern
	rg.POST("/trial", func(c *gin.Context) {
		var req struct {
			NCTID string `json:"nct_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body, 'nct_id' required"})
			return
		}
		trial, err := enricher.EnrichTrial(c.Request.Context(), provenanceFromRequest(c), req.NCTID)
		if err != nil {
			logging.Error("Trial enrichment failed", zap.String("nct_id", req.NCTID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment failed"})
			return
		}
		c.JSON(http.StatusOK, trial)
	})
}

func setupAuditRoutes(router *gin.Engine, auditor *services.AuditService, logging *zap.Logger) {
	rg := router.Group("/audit")

	// POST - Link-Audit sofort ausführen
	rg.POST("/run", func(c *gin.Context) {
		stats, err := auditor.Run(c.Request.Context())
		if err != nil {
			logging.Error("Link audit failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})
}
