package store

import "context"

// Watch calls fn with a snapshot of the session immediately and again after
// every change to its questions or responses. It returns when ctx is done,
// when fn returns an error, or with ErrNotFound once the session is deleted.
//
// On every question change all response subscriptions are cancelled and
// re-created for the current question set, so a deleted question never keeps
// a subscription alive.
func (s *Store) Watch(ctx context.Context, userID, sessionID string, fn func(*Session) error) error {
	questionEvents := make(chan string, 1)
	cancelQuestions := s.hub.Subscribe(QuestionsTopic(userID, sessionID), questionEvents)
	defer cancelQuestions()

	responseEvents := make(chan string, 16)
	var cancelResponses []func()
	teardown := func() {
		for _, cancel := range cancelResponses {
			cancel()
		}
		cancelResponses = nil
	}
	defer teardown()

	resubscribe := func(sess *Session) {
		teardown()
		for _, q := range sess.Questions {
			cancel := s.hub.Subscribe(ResponsesTopic(userID, sessionID, q.ID), responseEvents)
			cancelResponses = append(cancelResponses, cancel)
		}
	}

	sess, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	resubscribe(sess)
	if err := fn(sess); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-questionEvents:
			sess, err := s.Session(ctx, userID, sessionID)
			if err != nil {
				return err
			}
			resubscribe(sess)
			if err := fn(sess); err != nil {
				return err
			}
		case <-responseEvents:
			sess, err := s.Session(ctx, userID, sessionID)
			if err != nil {
				return err
			}
			if err := fn(sess); err != nil {
				return err
			}
		}
	}
}
