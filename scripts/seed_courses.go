// 导入示例课程数据脚本
//
// 从 YAML 文件读取课程、课时和题目，写入配置中的数据库。
// 同名课程已存在时跳过，可重复执行。
//
// 用法: go run scripts/seed_courses.go -file scripts/seed_courses.yaml

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/repository"
	"onlinecourse_backend/internal/service"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/database"
	"onlinecourse_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Courses []seedCourse `yaml:"courses"`
}

type seedCourse struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	PubDate     string         `yaml:"pub_date"`
	Lessons     []seedLesson   `yaml:"lessons"`
	Questions   []seedQuestion `yaml:"questions"`
}

type seedLesson struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type seedQuestion struct {
	Text    string       `yaml:"text"`
	Grade   *int         `yaml:"grade"`
	Choices []seedChoice `yaml:"choices"`
}

type seedChoice struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	file := flag.String("file", "scripts/seed_courses.yaml", "课程数据文件")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取课程数据: %v", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("解析课程数据失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	courseRepo := repository.NewCourseRepository(db)
	courseService := service.NewCourseService(courseRepo, repository.NewEnrollmentRepository(db), repository.NewProfileRepository(db), nil, cfg)
	admin := service.NewAdminService(
		courseRepo,
		repository.NewLessonRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewProfileRepository(db),
		repository.NewUserRepository(db),
		courseService,
		service.NewStorageService(cfg),
	)

	ctx := context.Background()
	created := 0
	for _, sc := range seed.Courses {
		var count int64
		db.Model(&model.Course{}).Where("name = ?", sc.Name).Count(&count)
		if count > 0 {
			log.Printf("课程已存在，跳过: %s", sc.Name)
			continue
		}

		in := service.CourseInput{Name: sc.Name, Description: sc.Description}
		if sc.PubDate != "" {
			t, err := time.ParseInLocation(util.DateFormat, sc.PubDate, time.Local)
			if err != nil {
				log.Fatalf("课程 %s 发布日期格式错误: %v", sc.Name, err)
			}
			in.PubDate = &t
		}
		course, err := admin.CreateCourse(ctx, in)
		if err != nil {
			log.Fatalf("创建课程 %s 失败: %v", sc.Name, err)
		}

		for i, l := range sc.Lessons {
			if _, err := admin.CreateLesson(ctx, course.ID, service.LessonInput{Title: l.Title, Order: i, Content: l.Content}); err != nil {
				log.Fatalf("创建课时失败: %v", err)
			}
		}
		for _, q := range sc.Questions {
			qi := service.QuestionInput{QuestionText: q.Text, Grade: q.Grade}
			for _, c := range q.Choices {
				qi.Choices = append(qi.Choices, service.ChoiceInput{ChoiceText: c.Text, IsCorrect: c.Correct})
			}
			if _, err := admin.CreateQuestion(ctx, course.ID, qi); err != nil {
				log.Fatalf("创建题目失败: %v", err)
			}
		}
		created++
	}

	log.Printf("完成！新增课程 %d 门", created)
}
