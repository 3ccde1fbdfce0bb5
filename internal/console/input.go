package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tarediiran-industries.com/train-dispatch/internal/register"
)

// Reader prompts for values line by line and re-prompts until the input is
// valid. Every method returns io.EOF once the input is exhausted.
type Reader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{scanner: bufio.NewScanner(in), out: out}
}

func (reader *Reader) println(a ...any) {
	fmt.Fprintln(reader.out, a...)
}

func (reader *Reader) readLine() (string, error) {
	if !reader.scanner.Scan() {
		if err := reader.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(reader.scanner.Text()), nil
}

func (reader *Reader) readNonEmpty() (string, error) {
	for {
		line, err := reader.readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		reader.println("Enter non-empty input")
	}
}

func (reader *Reader) readInt() (int, error) {
	for {
		line, err := reader.readLine()
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(line)
		if err == nil {
			return value, nil
		}
		reader.println("Please enter an integer")
	}
}

// MenuOption prints the menu and reads until one of its options is chosen.
func (reader *Reader) MenuOption(menu *Menu) (int, error) {
	if menu.IsEmpty() {
		return 0, errors.New("menu has no options")
	}

	for {
		reader.println(menu)
		option, err := reader.readInt()
		if err != nil {
			return 0, err
		}
		if menu.HasOption(option) {
			return option, nil
		}
		reader.println("Please enter a valid option number")
	}
}

func (reader *Reader) Time(prompt string) (register.TimeOfDay, error) {
	for {
		reader.println(prompt)
		line, err := reader.readNonEmpty()
		if err != nil {
			return 0, err
		}
		t, err := register.ParseTimeOfDay(line)
		if err == nil {
			return t, nil
		}
		reader.println("Please enter a valid time in the format (hh:mm)")
	}
}

// DelayMinutes treats an empty line as no delay.
func (reader *Reader) DelayMinutes() (int, error) {
	for {
		reader.println("Enter delay in minutes (or empty for no delay):")
		line, err := reader.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return 0, nil
		}
		minutes, err := strconv.Atoi(line)
		if err == nil && minutes >= 0 && minutes <= register.MaxDelayMinutes {
			return minutes, nil
		}
		reader.println(fmt.Sprintf("Please enter a delay between 0 and %d minutes", register.MaxDelayMinutes))
	}
}

func (reader *Reader) nonNegative(prompt, what string) (int, error) {
	for {
		reader.println(prompt)
		value, err := reader.readInt()
		if err != nil {
			return 0, err
		}
		if value >= 0 {
			return value, nil
		}
		reader.println(what + " cannot be negative")
	}
}

func (reader *Reader) TrainNumber() (int, error) {
	return reader.nonNegative("Enter train number:", "Train number")
}

func (reader *Reader) Track() (int, error) {
	return reader.nonNegative("Enter track (0 for unassigned):", "Track")
}

func (reader *Reader) Line() (string, error) {
	reader.println("Enter line:")
	return reader.readNonEmpty()
}

func (reader *Reader) Destination() (string, error) {
	reader.println("Enter destination:")
	return reader.readNonEmpty()
}

// Confirm accepts anything starting with y or n.
func (reader *Reader) Confirm(question string) (bool, error) {
	for {
		reader.println(question + " (yes/no)")
		line, err := reader.readNonEmpty()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line)[0] {
		case 'y':
			return true, nil
		case 'n':
			return false, nil
		}
		reader.println("Please enter yes or no")
	}
}
