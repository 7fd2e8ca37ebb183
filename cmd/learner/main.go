// learner 是学生端作业流程的终端前端
//
// 用法:
//
//	learner [-server URL] [-token T] login -email E -password P
//	learner homework -video 1
//	learner submit -video 1 -a B -a "A,C" -a "主观题答案"
//	learner mistakes
//	learner review -a B -a "A,C"
//	learner scores [-detail 0]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"snaplearn_backend/internal/learner"
	"snaplearn_backend/pkg/client"
	"strings"
	"time"
)

type answerList []string

func (a *answerList) String() string { return strings.Join(*a, ";") }

func (a *answerList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

type env struct {
	api     *client.Client
	session client.Session
}

func main() {
	server := flag.String("server", envOr("SNAPLEARN_SERVER", "http://localhost:8080"), "作业服务地址")
	token := flag.String("token", os.Getenv("SNAPLEARN_TOKEN"), "登录后获得的 token")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "单次请求超时")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	e := &env{
		api:     client.New(client.Options{BaseURL: *server, Timeout: *timeout}),
		session: client.Session{Token: *token},
	}

	ctx := context.Background()
	args := flag.Args()[1:]
	var err error
	switch flag.Arg(0) {
	case "login":
		err = e.login(ctx, args)
	case "homework":
		err = e.homework(ctx, args)
	case "submit":
		err = e.submit(ctx, args)
	case "mistakes":
		err = e.mistakes(ctx)
	case "review":
		err = e.review(ctx, args)
	case "scores":
		err = e.scores(ctx, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fail(learner.UserMessage(err))
		if !isUserFacing(err) {
			fmt.Fprintln(os.Stderr, faint.Render(err.Error()))
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: learner [-server URL] [-token T] <login|homework|submit|mistakes|review|scores> [flags]")
	flag.PrintDefaults()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isUserFacing(err error) bool {
	var ve *learner.ValidationError
	return errors.As(err, &ve)
}

func (e *env) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "邮箱")
	password := fs.String("password", "", "密码")
	_ = fs.Parse(args)

	res, err := e.api.Login(ctx, *email, *password)
	if err != nil {
		return &learner.ActionError{Message: "登录失败，请检查邮箱和密码", Err: err}
	}
	success(fmt.Sprintf("欢迎，%s", res.User.Name))
	fmt.Printf("export SNAPLEARN_TOKEN=%s\n", res.Token)
	return nil
}

func (e *env) loadHomework(ctx context.Context, videoID uint) (*client.Homework, error) {
	hw, err := e.api.GetHomework(ctx, e.session, videoID)
	if err != nil {
		return nil, &learner.ActionError{Message: learner.MsgLoadFailed, Err: err}
	}
	if hw == nil {
		return nil, &learner.ActionError{Message: "该视频没有作业", Err: fmt.Errorf("video %d has no homework", videoID)}
	}
	return hw, nil
}

func (e *env) homework(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("homework", flag.ExitOnError)
	video := fs.Uint("video", 0, "视频ID")
	_ = fs.Parse(args)

	hw, err := e.loadHomework(ctx, *video)
	if err != nil {
		return err
	}
	renderHomework(hw)
	return nil
}

func (e *env) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	video := fs.Uint("video", 0, "视频ID")
	var answers answerList
	fs.Var(&answers, "a", "按题目顺序给出答案，可重复；多选题用逗号分隔")
	_ = fs.Parse(args)

	hw, err := e.loadHomework(ctx, *video)
	if err != nil {
		return err
	}

	sheet := learner.NewAnswerSheet(hw.Questions)
	for i, a := range answers {
		if i >= sheet.Len() {
			break
		}
		if err := sheet.Fill(i, a); err != nil {
			return err
		}
	}

	d := learner.NewDispatcher(e.api, e.session, *video)
	start := time.Now()
	out, err := d.Submit(ctx, sheet)
	if err != nil {
		return err
	}
	renderScore(learner.Present(*out, hw.Questions), time.Since(start))
	return nil
}

func (e *env) mistakes(ctx context.Context) error {
	r := learner.NewMistakeReview(e.api, e.session)
	if err := r.Load(ctx); err != nil {
		return err
	}
	renderMistakes(r.Entries())
	return nil
}

func (e *env) review(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	var answers answerList
	fs.Var(&answers, "a", "按错题顺序给出答案，可重复")
	_ = fs.Parse(args)

	r := learner.NewMistakeReview(e.api, e.session)
	if err := r.Load(ctx); err != nil {
		return err
	}
	if len(r.Entries()) == 0 {
		success("错题本为空")
		return nil
	}

	sheet := r.Sheet()
	for i, a := range answers {
		if i >= sheet.Len() {
			break
		}
		if err := sheet.Fill(i, a); err != nil {
			return err
		}
	}

	summary, err := r.Submit(ctx)
	if summary != nil {
		renderReview(*summary)
	}
	if err != nil {
		return err
	}
	renderMistakes(r.Entries())
	return nil
}

func (e *env) scores(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scores", flag.ExitOnError)
	detail := fs.Int("detail", -1, "查看第几条记录的详情（从 0 开始）")
	_ = fs.Parse(args)

	l := learner.NewScoreLedger(e.api, e.session)
	if err := l.Load(ctx); err != nil {
		return err
	}
	rows := l.Rows()
	renderScoreRows(rows)

	if *detail < 0 {
		return nil
	}
	d, err := l.Detail(*detail)
	if errors.Is(err, learner.ErrDetailDisabled) {
		warn("该作业尚未批改完成，暂不能查看详情")
		return nil
	}
	if err != nil {
		return err
	}
	renderScoreDetail(d)
	return nil
}
