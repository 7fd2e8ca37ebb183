package main

import (
	"fmt"
	"os"
	"snaplearn_backend/internal/learner"
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/grading"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	title   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	good    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	bad     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	notice  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12"))
	faint   = lipgloss.NewStyle().Faint(true)
	label   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9b59b6"))
	boxed   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	typeTag = map[grading.QuestionType]string{
		grading.Single:     "单选",
		grading.Multiple:   "多选",
		grading.Subjective: "主观",
	}
)

func success(msg string) { fmt.Println(good.Render("✔ " + msg)) }
func warn(msg string)    { fmt.Println(notice.Render("! " + msg)) }
func fail(msg string)    { fmt.Fprintln(os.Stderr, bad.Render("✘ "+msg)) }

func renderQuestion(i int, t grading.QuestionType, text string, options []string, score float64) {
	fmt.Printf("%s %s %s\n", label.Render(fmt.Sprintf("%d.", i+1)), faint.Render("["+typeTag[t]+fmt.Sprintf(" %g分]", score)), text)
	for j, opt := range options {
		fmt.Printf("    %s. %s\n", grading.OptionLetter(j), opt)
	}
}

func renderHomework(hw *client.Homework) {
	fmt.Println(title.Render(hw.Title))
	if hw.Description != "" {
		fmt.Println(faint.Render(hw.Description))
	}
	for i, q := range hw.Questions {
		renderQuestion(i, q.QuestionType, q.Text, q.Options, q.Score)
	}
}

func renderScore(v learner.ScoreView, took time.Duration) {
	if v.Pending {
		fmt.Println(boxed.Render(notice.Render(v.Message)))
		fmt.Println(faint.Render("稍后运行 learner scores 查看结果"))
		return
	}

	style := good
	if v.Percent < 60 {
		style = bad
	}
	head := style.Render(fmt.Sprintf("得分 %g / %g（%d%%）", v.Total, v.Possible, v.Percent))
	lines := []string{head}
	for _, e := range v.Explanations {
		lines = append(lines, "• "+e)
	}
	fmt.Println(boxed.Render(strings.Join(lines, "\n")))
	fmt.Println(faint.Render(fmt.Sprintf("用时 %s，可运行 learner mistakes 查看错题", took.Round(time.Millisecond))))
}

func renderMistakes(entries []client.MistakeEntry) {
	if len(entries) == 0 {
		success("错题本为空")
		return
	}
	fmt.Println(title.Render(fmt.Sprintf("错题本（%d 题）", len(entries))))
	for i, e := range entries {
		renderQuestion(i, e.QuestionType, e.Text, e.Options, e.Score)
		fmt.Println(faint.Render(fmt.Sprintf("    错误 %d 次，上次答案：%s", e.WrongTimes, e.LastWrongAnswer)))
	}
}

func renderReview(s learner.ReviewSummary) {
	if s.Failed > 0 {
		warn(s.Message())
	} else {
		success(s.Message())
	}
	for _, r := range s.Results {
		switch {
		case r.Err != nil:
			fmt.Println(bad.Render(fmt.Sprintf("    题目 %d：%s", r.QuestionID, learner.UserMessage(r.Err))))
		case r.IsCorrect:
			fmt.Println(good.Render(fmt.Sprintf("    题目 %d：正确，已移出错题本", r.QuestionID)))
		default:
			fmt.Println(bad.Render(fmt.Sprintf("    题目 %d：错误", r.QuestionID)))
		}
	}
}

func renderScoreRows(rows []learner.ScoreRow) {
	if len(rows) == 0 {
		warn("暂无提交记录")
		return
	}
	fmt.Println(title.Render("成绩查询"))
	for i, r := range rows {
		status := good.Render("已批改")
		if !r.DetailEnabled {
			status = notice.Render("待批改")
		}
		fmt.Printf("%s %s  %s  %s\n", label.Render(fmt.Sprintf("[%d]", i)),
			r.SubmittedAt.Local().Format("2006-01-02 15:04"), r.HomeworkTitle, status)
	}
}

func renderScoreDetail(d *learner.ScoreDetail) {
	rec := d.Record
	var total float64
	if rec.TotalScore != nil {
		total = *rec.TotalScore
	}
	lines := []string{
		title.Render(rec.HomeworkTitle),
		fmt.Sprintf("得分 %g / %g（%d%%）", total, rec.PossibleScore, d.Percent),
	}
	for _, e := range rec.Explanations {
		lines = append(lines, "• "+e)
	}
	fmt.Println(boxed.Render(strings.Join(lines, "\n")))
}
