package app

import (
	"snaplearn_backend/docs"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/middleware"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		registerStudentRoutes(authGroup, c)

		// 教师相关接口
		teacher := authGroup.Group("/homework")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		registerTeacherRoutes(teacher, c)
	}

	// 3. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users/:id/verify", c.user.VerifyTeacher)
	}
}

func registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.POST("/user/avatar", c.user.UploadAvatar)

	// 视频作业
	rg.GET("/homework/homeworks", c.homework.ListHomeworks)
	rg.GET("/videos/:videoId/homework", c.homework.GetVideoHomework)
	rg.POST("/videos/:videoId/submit_homework", c.homework.SubmitHomework)

	// 成绩与错题本
	rg.GET("/homework/my_scores", c.homework.MyScores)
	rg.GET("/homework/mistakebook", c.mistake.List)
	rg.POST("/homework/mistakebook/update", c.mistake.Reconcile)
	rg.POST("/homework/mistakebook/judge", c.mistake.Judge)

	// AI 提示
	rg.POST("/homework/questions/:questionId/ai_help", c.homework.AIHelp)
	rg.POST("/homework/questions/:questionId/ai_feedback", c.homework.AIFeedback)
}

func registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/upload", c.teacher.CreateHomework)
	rg.GET("/myhomeworks", c.teacher.MyHomeworks)
	rg.POST("/update_score", c.teacher.UpdateScore)
	rg.POST("/correct_subjective", c.teacher.CorrectSubjective)
	rg.POST("/:homeworkId/add_question", c.teacher.AddQuestion)
	rg.DELETE("/:homeworkId", c.teacher.DeleteHomework)
	rg.GET("/:homeworkId/students", c.teacher.Submitters)
	rg.GET("/:homeworkId/student/:studentId", c.teacher.StudentDetail)
}
