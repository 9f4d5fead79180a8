// Command boardctl drives a board driver by hand: type words, clear the row and
// read the tiles the same way the game loop does.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"wordle-agent/internal/application"
	"wordle-agent/internal/config"
	"wordle-agent/internal/entity"
	"wordle-agent/internal/journal"
	"wordle-agent/internal/logging"
)

func main() {
	// 1. Инициализация
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Println("🚀 Запуск CLI-интерфейса управления доской...")

	cfg, err := config.LoadToolConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	board, err := application.NewBoard(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Ошибка запуска: %v\n", err)
		os.Exit(1)
	}
	defer board.Close()

	if err := board.Open(ctx, cfg.Game.URL); err != nil {
		fmt.Printf("⚠️ Ошибка навигации: %v\n", err)
	}

	j := application.OpenJournal(ctx, cfg.Journal, log)
	defer j.Close()

	scanner := bufio.NewScanner(os.Stdin)
	row := 0 // строка, которую читает "r" без аргумента

	// ==========================================
	// 🔄 ГЛАВНЫЙ ЦИКЛ (REPL)
	// ==========================================
	for {
		if ctx.Err() != nil {
			return
		}

		// 1. Доска в начале каждого цикла
		records := board.ReadBoard(ctx)
		row = len(records)
		fmt.Println("\n=================================================")
		if len(records) == 0 {
			fmt.Println("🟩 Доска пуста")
		}
		for i, rec := range records {
			fmt.Printf("%d. %s\n", i+1, rec)
		}
		fmt.Println("=================================================")

		// 2. Ввод команды
		fmt.Println("\n🎮 КОМАНДЫ: [t <word>]=Type+Enter | [c]=Clear | [r <row>]=Read row | [j <n>]=Journal | [goto <url>] | [q]=Quit")
		fmt.Print("👉 Введите команду > ")

		if !scanner.Scan() {
			break
		}
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			continue
		}

		// 3. Обработка команд
		var actionErr error
		startTime := time.Now()

		switch cmd.name {
		case cmdNone, cmdRefresh:
			continue
		case cmdQuit:
			fmt.Println("👋 Завершение работы.")
			return
		case cmdHelp:
			printHelp()
			continue
		case cmdGoto:
			fmt.Printf("🌐 Переход на %s...\n", cmd.arg)
			actionErr = board.Open(ctx, cmd.arg)
		case cmdType:
			fmt.Printf("⌨️ Ввод '%s'...\n", cmd.arg)
			actionErr = board.Submit(ctx, cmd.arg)
		case cmdClear:
			fmt.Println("⌫ Очистка строки...")
			actionErr = board.Clear(ctx)
		case cmdRead:
			r := row
			if cmd.row >= 0 {
				r = cmd.row
			}
			res := board.ReadRow(ctx, r)
			fmt.Printf("🔎 Строка %d: %s (принята: %v)\n", r, res, res.Accepted())
			continue
		case cmdRecent:
			if err := printRecent(ctx, os.Stdout, j, cmd.row); err != nil {
				fmt.Printf("❌ %v\n", err)
			}
			continue
		}

		// 4. Отчет о результате
		if actionErr != nil {
			fmt.Printf("\n❌ ОШИБКА: %v\n", actionErr)
			continue
		}
		fmt.Printf("\n✅ Успешно (за %v)\n", time.Since(startTime).Round(time.Millisecond))
		// Пауза на анимацию клеток перед чтением доски
		time.Sleep(cfg.Game.SettleDelay)
	}
}

func printHelp() {
	fmt.Println(`
📚 СПРАВКА ПО КОМАНДАМ:
---------------------------------------------
 Игра:
   t <word>        - Ввести слово и нажать Enter (напр. t crane)
   c               - Стереть текущую строку (5 x Backspace)
   r [row]         - Прочитать строку (по умолчанию следующую)

 Прочее:
   j [n]           - Последние n партий из журнала (по умолчанию 5)
   goto <url>      - Открыть игру заново
   q               - Выход
   h               - Эта справка
---------------------------------------------`)
}

type commandName int

const (
	cmdNone commandName = iota
	cmdRefresh
	cmdQuit
	cmdHelp
	cmdGoto
	cmdType
	cmdClear
	cmdRead
	cmdRecent
)

type command struct {
	name commandName
	arg  string
	row  int // -1 = следующая строка; для cmdRecent число партий
}

const defaultRecent = 5

func parseCommand(line string) (command, error) {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return command{name: cmdNone}, nil
	}
	args := parts[1:]

	switch strings.ToLower(parts[0]) {
	case "q", "quit", "exit":
		return command{name: cmdQuit}, nil
	case "help", "h", "?":
		return command{name: cmdHelp}, nil
	case "b", "board", "refresh":
		return command{name: cmdRefresh}, nil
	case "c", "clear":
		return command{name: cmdClear}, nil
	case "goto", "go":
		if len(args) == 0 {
			return command{}, errors.New("укажите URL. Пример: goto localhost:5175")
		}
		url := args[0]
		if !strings.HasPrefix(url, "http") {
			url = "http://" + url
		}
		return command{name: cmdGoto, arg: url}, nil
	case "t", "type":
		if len(args) != 1 || !entity.IsValidWord(args[0]) {
			return command{}, errors.New("формат: t <слово из 5 букв>")
		}
		return command{name: cmdType, arg: strings.ToLower(args[0])}, nil
	case "r", "read":
		if len(args) == 0 {
			return command{name: cmdRead, row: -1}, nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > 5 {
			return command{}, errors.New("номер строки от 0 до 5")
		}
		return command{name: cmdRead, row: n}, nil
	case "j", "journal", "recent":
		if len(args) == 0 {
			return command{name: cmdRecent, row: defaultRecent}, nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return command{}, errors.New("число партий должно быть положительным")
		}
		return command{name: cmdRecent, row: n}, nil
	}
	return command{}, fmt.Errorf("неизвестная команда %q. Введите 'help' или 'h'", parts[0])
}

// printRecent печатает последние n партий из журнала, новые сверху.
func printRecent(ctx context.Context, w io.Writer, j journal.Journal, n int) error {
	entries, err := j.Recent(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "📒 Журнал пуст (или REDIS_ADDR не задан)")
		return nil
	}
	for _, e := range entries {
		words := make([]string, 0, len(e.Guesses))
		for _, g := range e.Guesses {
			words = append(words, strings.ToUpper(g.Word))
		}
		fmt.Fprintf(w, "%s  %-8s %-8s попыток: %-2d %s\n",
			e.FinishedAt.Local().Format(time.DateTime), e.Status, e.Mode, e.Attempts, strings.Join(words, " "))
	}
	return nil
}
